package clanapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clan_war_stats/internal/app"
)

func TestNewClient(t *testing.T) {
	client := NewClient("https://api.example.com/v1", "test_token")

	if client.baseURL != "https://api.example.com/v1" {
		t.Errorf("Expected base URL 'https://api.example.com/v1', got '%s'", client.baseURL)
	}

	if client.client.Timeout != 30*time.Second {
		t.Errorf("Expected timeout 30s, got %v", client.client.Timeout)
	}

	if client.apiCallCount != 0 {
		t.Errorf("Expected API call count 0, got %d", client.apiCallCount)
	}
}

func TestAPICallCounter(t *testing.T) {
	client := NewClient("https://api.example.com/v1", "")

	// Test initial count
	if count := client.GetAPICallCount(); count != 0 {
		t.Errorf("Expected initial count 0, got %d", count)
	}

	// Test increment
	client.IncrementAPICall()
	if count := client.GetAPICallCount(); count != 1 {
		t.Errorf("Expected count 1 after increment, got %d", count)
	}

	// Test multiple increments
	client.IncrementAPICall()
	client.IncrementAPICall()
	if count := client.GetAPICallCount(); count != 3 {
		t.Errorf("Expected count 3 after multiple increments, got %d", count)
	}

	// Test reset
	client.ResetAPICallCount()
	if count := client.GetAPICallCount(); count != 0 {
		t.Errorf("Expected count 0 after reset, got %d", count)
	}
}

func TestGetCurrentWar(t *testing.T) {
	war := app.CurrentWar{
		SeasonID:     107,
		SectionIndex: 2,
		PeriodIndex:  17, // 17 mod 7 = 3, war day 1
		PeriodType:   "warDay",
		Clan:         app.WarClan{Tag: "#AAA111", Name: "Test Clan"},
		Participants: []app.WarParticipant{
			{Tag: "#P1", Name: "Alice", Fame: 800, DecksUsed: 4, DecksUsedToday: 4},
			{Tag: "#P2", Name: "Bob", Fame: 400, DecksUsed: 2, DecksUsedToday: 2},
		},
	}

	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(war)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")

	got, err := client.GetCurrentWar(context.Background(), "#AAA111")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if gotPath != "/clans/%23AAA111/currentriverrace" {
		t.Errorf("Expected escaped clan tag in path, got '%s'", gotPath)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("Expected bearer token header, got '%s'", gotAuth)
	}

	if got.SeasonID != 107 || got.SectionIndex != 2 {
		t.Errorf("Expected season 107 section 2, got season %d section %d", got.SeasonID, got.SectionIndex)
	}

	if len(got.Participants) != 2 {
		t.Errorf("Expected 2 participants, got %d", len(got.Participants))
	}

	if count := client.GetAPICallCount(); count != 1 {
		t.Errorf("Expected 1 API call, got %d", count)
	}
}

func TestGetCurrentWarRetriesOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(app.CurrentWar{SeasonID: 1})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	// Shrink backoff so the test doesn't sleep for real
	client.retry.InitialWait = time.Millisecond
	client.retry.MaxWait = time.Millisecond

	got, err := client.GetCurrentWar(context.Background(), "#AAA111")
	if err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}

	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}

	if got.SeasonID != 1 {
		t.Errorf("Expected season 1, got %d", got.SeasonID)
	}
}

func TestGetCurrentWarExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	client.retry.MaxAttempts = 2
	client.retry.InitialWait = time.Millisecond
	client.retry.MaxWait = time.Millisecond

	_, err := client.GetCurrentWar(context.Background(), "#AAA111")
	if err == nil {
		t.Fatal("Expected error after exhausting retries, got nil")
	}

	if count := client.GetAPICallCount(); count != 2 {
		t.Errorf("Expected 2 API calls, got %d", count)
	}
}
