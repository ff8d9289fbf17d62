package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"clan_war_stats/internal/app"

	"github.com/rs/zerolog/log"
)

const ledgerFileName = "war_ledger.json"

// LedgerStore owns the on-disk war ledger and its week archives. All writes
// go through a temp-file-then-rename step so a concurrent reader of the
// canonical file sees either the old or the new content, never a partial
// write.
type LedgerStore struct {
	dataDir string
}

func NewLedgerStore(dataDir string) *LedgerStore {
	return &LedgerStore{dataDir: dataDir}
}

// LedgerPath returns the canonical ledger file location
func (s *LedgerStore) LedgerPath() string {
	return filepath.Join(s.dataDir, ledgerFileName)
}

// Load reads the persisted ledger. A missing or corrupt file degrades to a
// pristine empty ledger; corruption is logged but never surfaces as an
// error.
func (s *LedgerStore) Load() *app.WarLedger {
	data, err := os.ReadFile(s.LedgerPath())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", s.LedgerPath()).Msg("Failed to read war ledger, starting empty")
		}
		return app.NewWarLedger()
	}

	var ledger app.WarLedger
	if err := json.Unmarshal(data, &ledger); err != nil {
		log.Warn().Err(err).Str("path", s.LedgerPath()).Msg("War ledger file is corrupt, starting empty")
		return app.NewWarLedger()
	}

	if ledger.Days == nil {
		ledger.Days = make(map[string]app.DaySnapshot)
	}

	log.Debug().
		Int("days", len(ledger.Days)).
		Msg("Loaded war ledger")

	return &ledger
}

// Save atomically persists the ledger: serialize to a temp file in the same
// directory, then rename over the canonical path. On failure the temp file
// is removed and the canonical file is left untouched.
func (s *LedgerStore) Save(ledger *app.WarLedger) error {
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize war ledger: %w", err)
	}

	tmp, err := os.CreateTemp(s.dataDir, ".war_ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp ledger file: %w", err)
	}

	if err := os.Rename(tmpName, s.LedgerPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace war ledger: %w", err)
	}

	log.Debug().
		Int("days", len(ledger.Days)).
		Str("path", s.LedgerPath()).
		Msg("Persisted war ledger")

	return nil
}

// Archive writes a closed section's ledger to a uniquely named week file and
// returns its path. An existing archive is never overwritten; name
// collisions get a numeric suffix.
func (s *LedgerStore) Archive(ledger *app.WarLedger) (string, error) {
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize week archive: %w", err)
	}

	base := s.archiveBaseName(ledger)
	path := filepath.Join(s.dataDir, base+".json")
	for suffix := 2; ; suffix++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(s.dataDir, fmt.Sprintf("%s_%d.json", base, suffix))
	}

	tmp, err := os.CreateTemp(s.dataDir, ".week_archive-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp archive file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write temp archive file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close temp archive file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write week archive: %w", err)
	}

	log.Info().
		Str("archive", path).
		Int("days", len(ledger.Days)).
		Msg("Archived closed war section")

	return path, nil
}

// archiveBaseName derives the deterministic archive name from the section
// index and the date span of the recorded days.
func (s *LedgerStore) archiveBaseName(ledger *app.WarLedger) string {
	sectionIndex := 0
	if ledger.SectionIndex != nil {
		sectionIndex = *ledger.SectionIndex
	}

	var first, last time.Time
	for _, day := range ledger.Days {
		if first.IsZero() || day.CapturedAt.Before(first) {
			first = day.CapturedAt
		}
		if last.IsZero() || day.CapturedAt.After(last) {
			last = day.CapturedAt
		}
	}
	if first.IsZero() {
		now := time.Now().UTC()
		first, last = now, now
	}

	return fmt.Sprintf("WeekData_week_%d_%s_%s",
		sectionIndex,
		first.UTC().Format("2006-01-02"),
		last.UTC().Format("2006-01-02"))
}
