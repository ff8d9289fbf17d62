package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clan_war_stats/internal/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func openLedger(seasonID, sectionIndex int) *app.WarLedger {
	ledger := app.NewWarLedger()
	ledger.SeasonID = intPtr(seasonID)
	ledger.SectionIndex = intPtr(sectionIndex)
	return ledger
}

func TestLoadMissingFileReturnsPristine(t *testing.T) {
	store := NewLedgerStore(t.TempDir())

	ledger := store.Load()

	require.NotNil(t, ledger)
	assert.True(t, ledger.IsPristine())
	assert.Empty(t, ledger.Days)
}

func TestLoadCorruptFileReturnsPristine(t *testing.T) {
	dir := t.TempDir()
	store := NewLedgerStore(dir)

	require.NoError(t, os.WriteFile(store.LedgerPath(), []byte("{not json"), 0o644))

	ledger := store.Load()

	require.NotNil(t, ledger)
	assert.True(t, ledger.IsPristine())
	assert.Empty(t, ledger.Days)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewLedgerStore(t.TempDir())

	ledger := openLedger(107, 2)
	ledger.Days["1"] = app.DaySnapshot{
		CapturedAt: time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
		Participants: map[string]app.ParticipantDayRecord{
			"#P1": {Name: "Alice", DecksUsed: 4, DecksUsedToday: 4, Fame: 800},
		},
	}
	ledger.Days["2"] = app.DaySnapshot{
		CapturedAt: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		Participants: map[string]app.ParticipantDayRecord{
			"#P1": {Name: "Alice", DecksUsed: 8, DecksUsedToday: 4, Fame: 1650},
			"#P2": {Name: "Bob", DecksUsed: 3, DecksUsedToday: 3, Fame: 600},
		},
	}

	require.NoError(t, store.Save(ledger))

	loaded := store.Load()
	assert.Equal(t, ledger, loaded)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewLedgerStore(dir)

	require.NoError(t, store.Save(openLedger(107, 2)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "war_ledger.json", entries[0].Name())
}

func TestSaveOverwritesAtomically(t *testing.T) {
	store := NewLedgerStore(t.TempDir())

	first := openLedger(107, 2)
	require.NoError(t, store.Save(first))

	second := openLedger(107, 3)
	second.Days["1"] = app.DaySnapshot{
		CapturedAt:   time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
		Participants: map[string]app.ParticipantDayRecord{"#P1": {Name: "Alice", DecksUsed: 2}},
	}
	require.NoError(t, store.Save(second))

	loaded := store.Load()
	assert.Equal(t, second, loaded)
}

func TestArchiveNaming(t *testing.T) {
	dir := t.TempDir()
	store := NewLedgerStore(dir)

	ledger := openLedger(107, 5)
	ledger.Days["1"] = app.DaySnapshot{CapturedAt: time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC), Participants: map[string]app.ParticipantDayRecord{}}
	ledger.Days["4"] = app.DaySnapshot{CapturedAt: time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC), Participants: map[string]app.ParticipantDayRecord{}}

	path, err := store.Archive(ledger)
	require.NoError(t, err)

	assert.Equal(t, "WeekData_week_5_2026-08-24_2026-08-27.json", filepath.Base(path))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestArchiveNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	store := NewLedgerStore(dir)

	ledger := openLedger(107, 5)
	ledger.Days["1"] = app.DaySnapshot{CapturedAt: time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC), Participants: map[string]app.ParticipantDayRecord{}}

	first, err := store.Archive(ledger)
	require.NoError(t, err)

	second, err := store.Archive(ledger)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(second, "_2.json"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestArchiveWithNoDaysUsesCurrentDate(t *testing.T) {
	store := NewLedgerStore(t.TempDir())

	path, err := store.Archive(openLedger(107, 5))
	require.NoError(t, err)

	today := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, "WeekData_week_5_"+today+"_"+today+".json", filepath.Base(path))
}
