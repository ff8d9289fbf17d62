package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"clan_war_stats/internal/app"
	"clan_war_stats/internal/config"
)

type fakeSheetsAPI struct {
	exists       bool
	existsErr    error
	createCalled int
	clearCalled  int
	updateCalled int
	updateErr    error
	failUpdates  int
	lastRange    string
	lastValues   [][]interface{}
}

func (f *fakeSheetsAPI) UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	f.updateCalled++
	if f.failUpdates > 0 {
		f.failUpdates--
		return errors.New("transient sheets error")
	}
	if f.updateErr != nil {
		return f.updateErr
	}
	f.lastRange = range_
	f.lastValues = values
	return nil
}

func (f *fakeSheetsAPI) ClearRange(ctx context.Context, spreadsheetID, range_ string) error {
	f.clearCalled++
	return nil
}

func (f *fakeSheetsAPI) CreateSheet(ctx context.Context, spreadsheetID, sheetName string) error {
	f.createCalled++
	f.exists = true
	return nil
}

func (f *fakeSheetsAPI) SheetExists(ctx context.Context, spreadsheetID, sheetName string) (bool, error) {
	return f.exists, f.existsErr
}

func newExporterWithFastRetry(api SheetsAPI) *StandingsExporter {
	exporter := NewStandingsExporter(api, "spreadsheet-id")
	exporter.retry = config.RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     time.Millisecond,
		Multiplier:  1.0,
		Timeout:     time.Second,
	}
	return exporter
}

func twoDayLedger() *app.WarLedger {
	seasonID := 107
	sectionIndex := 2
	ledger := app.NewWarLedger()
	ledger.SeasonID = &seasonID
	ledger.SectionIndex = &sectionIndex
	ledger.Days["1"] = app.DaySnapshot{
		CapturedAt: time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
		Participants: map[string]app.ParticipantDayRecord{
			"#P1": {Name: "Alice", DecksUsed: 4, Fame: 800},
			"#P2": {Name: "Bob", DecksUsed: 2, Fame: 350},
		},
	}
	ledger.Days["2"] = app.DaySnapshot{
		CapturedAt: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		Participants: map[string]app.ParticipantDayRecord{
			"#P1": {Name: "Alicia", DecksUsed: 8, Fame: 1650},
			"#P2": {Name: "Bob", DecksUsed: 5, Fame: 900},
		},
	}
	return ledger
}

func TestExportStandingsWritesSortedRows(t *testing.T) {
	api := &fakeSheetsAPI{exists: true}
	exporter := newExporterWithFastRetry(api)

	if err := exporter.ExportStandings(context.Background(), twoDayLedger()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if api.clearCalled != 1 {
		t.Errorf("Expected one clear, got %d", api.clearCalled)
	}
	if api.createCalled != 0 {
		t.Errorf("Expected no sheet creation when it exists, got %d", api.createCalled)
	}

	// Header plus two members
	if len(api.lastValues) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(api.lastValues))
	}

	// Alice leads on fame and carries her latest name
	if api.lastValues[1][0] != "Alicia" || api.lastValues[1][1] != "#P1" {
		t.Errorf("Expected Alicia (#P1) first, got %v", api.lastValues[1])
	}
	if api.lastValues[1][3] != 1650 {
		t.Errorf("Expected cumulative fame 1650, got %v", api.lastValues[1][3])
	}
	if api.lastValues[2][2] != 5 {
		t.Errorf("Expected Bob's cumulative decks 5, got %v", api.lastValues[2][2])
	}
}

func TestExportStandingsCreatesMissingSheet(t *testing.T) {
	api := &fakeSheetsAPI{exists: false}
	exporter := newExporterWithFastRetry(api)

	if err := exporter.ExportStandings(context.Background(), twoDayLedger()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if api.createCalled != 1 {
		t.Errorf("Expected the standings sheet to be created, got %d calls", api.createCalled)
	}
}

func TestExportStandingsSkipsEmptyLedger(t *testing.T) {
	api := &fakeSheetsAPI{exists: true}
	exporter := newExporterWithFastRetry(api)

	if err := exporter.ExportStandings(context.Background(), app.NewWarLedger()); err != nil {
		t.Fatalf("Expected no error for empty ledger, got %v", err)
	}

	if api.updateCalled != 0 || api.clearCalled != 0 {
		t.Error("Expected no sheet traffic for an empty ledger")
	}
}

func TestExportStandingsRetriesTransientFailures(t *testing.T) {
	api := &fakeSheetsAPI{exists: true, failUpdates: 2}
	exporter := newExporterWithFastRetry(api)

	if err := exporter.ExportStandings(context.Background(), twoDayLedger()); err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}

	if api.updateCalled != 3 {
		t.Errorf("Expected 3 update attempts, got %d", api.updateCalled)
	}
}

func TestExportStandingsGivesUpAfterMaxAttempts(t *testing.T) {
	api := &fakeSheetsAPI{exists: true, updateErr: errors.New("quota exceeded")}
	exporter := newExporterWithFastRetry(api)

	err := exporter.ExportStandings(context.Background(), twoDayLedger())
	if err == nil {
		t.Fatal("Expected error after exhausted retries")
	}
	if api.updateCalled != 3 {
		t.Errorf("Expected 3 update attempts, got %d", api.updateCalled)
	}
}
