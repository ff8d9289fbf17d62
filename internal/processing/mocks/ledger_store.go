package mocks

import (
	"clan_war_stats/internal/app"
)

// MockLedgerStore is a test double for the storage.LedgerStore
type MockLedgerStore struct {
	// Responses to return
	LoadResponse *app.WarLedger
	ArchivePath  string

	// Errors to return
	SaveError    error
	ArchiveError error

	// Call tracking
	SaveCalled          int
	SaveCalledWith      *app.WarLedger
	ArchiveCalled       int
	ArchiveCalledWith   *app.WarLedger
	ArchivedSectionDays int
}

// NewMockLedgerStore creates a new mock ledger store
func NewMockLedgerStore() *MockLedgerStore {
	return &MockLedgerStore{ArchivePath: "WeekData_week_0_2026-01-01_2026-01-04.json"}
}

func (m *MockLedgerStore) Load() *app.WarLedger {
	if m.LoadResponse != nil {
		return m.LoadResponse
	}
	return app.NewWarLedger()
}

func (m *MockLedgerStore) Save(ledger *app.WarLedger) error {
	m.SaveCalled++
	m.SaveCalledWith = ledger
	return m.SaveError
}

func (m *MockLedgerStore) Archive(ledger *app.WarLedger) (string, error) {
	m.ArchiveCalled++
	// Capture a snapshot of what was archived; the merger replaces the
	// ledger right after this call.
	m.ArchiveCalledWith = ledger.Clone()
	m.ArchivedSectionDays = len(ledger.Days)
	if m.ArchiveError != nil {
		return "", m.ArchiveError
	}
	return m.ArchivePath, nil
}
