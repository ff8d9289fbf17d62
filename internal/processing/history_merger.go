package processing

import (
	"strconv"
	"time"

	"clan_war_stats/internal/app"

	"github.com/rs/zerolog/log"
)

// HistoryMerger folds incoming cumulative war documents into the persisted
// day-by-day ledger. It owns the section lifecycle: detecting when a new
// section has started, archiving the closed one, and resetting.
type HistoryMerger struct {
	store    LedgerStoreInterface
	uploader ArchiveUploaderInterface
}

// NewHistoryMerger creates a merger. uploader may be nil when archives are
// not pushed anywhere.
func NewHistoryMerger(store LedgerStoreInterface, uploader ArchiveUploaderInterface) *HistoryMerger {
	return &HistoryMerger{
		store:    store,
		uploader: uploader,
	}
}

// MergeSnapshot merges a cumulative war document into the ledger and returns
// the (possibly replaced) in-memory ledger. With persist=false no file is
// touched, which is how simulated seasons run through the exact same code
// path as production polling.
//
// Storage failures are logged and never propagate: the returned ledger is
// always valid in memory even when persistence failed.
func (m *HistoryMerger) MergeSnapshot(doc *app.CurrentWar, ledger *app.WarLedger, persist bool) *app.WarLedger {
	if doc == nil || doc.Participants == nil {
		log.Warn().Msg("Ignoring malformed war document without participant list")
		return ledger
	}

	// The archive decision must run against the ledger's pre-update season
	// and section. A pristine ledger never archives: the first document ever
	// observed is the start of tracking, not a section rollover.
	if !ledger.IsPristine() && (*ledger.SeasonID != doc.SeasonID || *ledger.SectionIndex != doc.SectionIndex) {
		log.Info().
			Int("old_season", *ledger.SeasonID).
			Int("old_section", *ledger.SectionIndex).
			Int("new_season", doc.SeasonID).
			Int("new_section", doc.SectionIndex).
			Int("archived_days", len(ledger.Days)).
			Msg("New war section detected, archiving previous ledger")

		if persist {
			m.archiveClosedSection(ledger)
		}
		ledger = app.NewWarLedger()
	}

	seasonID := doc.SeasonID
	sectionIndex := doc.SectionIndex
	ledger.SeasonID = &seasonID
	ledger.SectionIndex = &sectionIndex

	class := ClassifyPeriod(doc.PeriodIndex)
	if !class.Scored {
		log.Debug().
			Int("period_index", doc.PeriodIndex).
			Msg("Training period, nothing to record")
		return ledger
	}

	snapshot := app.DaySnapshot{
		CapturedAt:   time.Now().UTC(),
		Participants: make(map[string]app.ParticipantDayRecord, len(doc.Participants)),
	}
	for _, p := range doc.Participants {
		snapshot.Participants[p.Tag] = app.ParticipantDayRecord{
			Name:           p.Name,
			DecksUsed:      p.DecksUsed,
			DecksUsedToday: p.DecksUsedToday,
			Fame:           p.Fame,
		}
	}

	dayKey := strconv.Itoa(class.DayNumber)
	ledger.Days[dayKey] = snapshot

	log.Debug().
		Int("war_day", class.DayNumber).
		Int("participants", len(snapshot.Participants)).
		Msg("Recorded day snapshot")

	if persist {
		m.saveLedger(ledger)
	}

	return ledger
}

// saveLedger persists the ledger, logging any failure
func (m *HistoryMerger) saveLedger(ledger *app.WarLedger) {
	if err := m.store.Save(ledger); err != nil {
		log.Error().Err(err).Msg("Failed to persist war ledger")
	}
}

// archiveClosedSection writes the closed ledger to a week archive and, when
// an uploader is configured, pushes it to the web host. Neither step may
// block the reset that triggered it.
func (m *HistoryMerger) archiveClosedSection(ledger *app.WarLedger) {
	path, err := m.store.Archive(ledger)
	if err != nil {
		log.Error().Err(err).Msg("Failed to archive closed war section")
		return
	}

	if m.uploader == nil {
		return
	}

	if err := m.uploader.UploadArchive(path); err != nil {
		log.Error().Err(err).Str("archive", path).Msg("Failed to upload week archive")
	}
}
