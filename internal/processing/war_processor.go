package processing

import (
	"context"
	"fmt"

	"clan_war_stats/internal/app"

	"github.com/rs/zerolog/log"
)

// WarProcessor runs one poll tick end to end: fetch the current war
// document, merge it into the ledger, refresh the read cache, and feed the
// optional export sinks.
type WarProcessor struct {
	clanClient ClanClientInterface
	merger     *HistoryMerger
	cache      *StateCache
	exporter   StandingsExporterInterface
	sink       DeltaSinkInterface
	config     *app.Config
	ledger     *app.WarLedger
}

// NewWarProcessor creates a processor seeded with the ledger loaded at boot.
// exporter and sink may be nil when the corresponding integration is not
// configured.
func NewWarProcessor(
	clanClient ClanClientInterface,
	merger *HistoryMerger,
	cache *StateCache,
	exporter StandingsExporterInterface,
	sink DeltaSinkInterface,
	config *app.Config,
	ledger *app.WarLedger,
) *WarProcessor {
	if ledger == nil {
		ledger = app.NewWarLedger()
	}
	cache.Refresh(nil, ledger.Clone())

	return &WarProcessor{
		clanClient: clanClient,
		merger:     merger,
		cache:      cache,
		exporter:   exporter,
		sink:       sink,
		config:     config,
		ledger:     ledger,
	}
}

// Ledger returns the processor's live ledger
func (p *WarProcessor) Ledger() *app.WarLedger {
	return p.ledger
}

// ProcessCurrentWar executes a single poll tick. An upstream fetch failure
// is returned to the caller (the tick is skipped, cached state stays
// authoritative); export failures are logged and never fail the tick.
func (p *WarProcessor) ProcessCurrentWar(ctx context.Context) error {
	doc, err := p.clanClient.GetCurrentWar(ctx, p.config.ClanTag)
	if err != nil {
		return fmt.Errorf("failed to fetch current war: %w", err)
	}

	p.ledger = p.merger.MergeSnapshot(doc, p.ledger, true)
	p.cache.Refresh(doc, p.ledger.Clone())

	class := ClassifyPeriod(doc.PeriodIndex)
	if !class.Scored {
		return nil
	}

	if p.exporter != nil {
		if err := p.exporter.ExportStandings(ctx, p.ledger); err != nil {
			log.Error().Err(err).Msg("Failed to export standings sheet")
		}
	}

	if p.sink != nil {
		if err := p.sink.WriteDayDeltas(ctx, p.ledger, class.DayNumber); err != nil {
			log.Error().Err(err).Msg("Failed to write day deltas to warehouse")
		}
	}

	return nil
}
