package mocks

import (
	"context"

	"clan_war_stats/internal/app"
)

// MockClanClient is a test double for the clanapi.Client
type MockClanClient struct {
	// Responses to return
	CurrentWarResponse *app.CurrentWar

	// Errors to return
	CurrentWarError error

	// Call tracking
	GetCurrentWarCalled        bool
	GetCurrentWarCalledWithTag string
	APICallCount               int64
	ResetCalled                bool
}

// NewMockClanClient creates a new mock clan API client
func NewMockClanClient() *MockClanClient {
	return &MockClanClient{}
}

func (m *MockClanClient) GetCurrentWar(ctx context.Context, clanTag string) (*app.CurrentWar, error) {
	m.GetCurrentWarCalled = true
	m.GetCurrentWarCalledWithTag = clanTag
	return m.CurrentWarResponse, m.CurrentWarError
}

func (m *MockClanClient) ResetAPICallCount() {
	m.ResetCalled = true
	m.APICallCount = 0
}

func (m *MockClanClient) GetAPICallCount() int64 {
	return m.APICallCount
}
