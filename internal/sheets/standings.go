package sheets

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"clan_war_stats/internal/app"
	"clan_war_stats/internal/config"
	"clan_war_stats/internal/processing"

	"github.com/rs/zerolog/log"
)

const standingsSheetName = "War Standings"

// SheetsAPI defines the interface for Google Sheets operations used by the
// standings exporter
type SheetsAPI interface {
	UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error
	ClearRange(ctx context.Context, spreadsheetID, range_ string) error
	CreateSheet(ctx context.Context, spreadsheetID, sheetName string) error
	SheetExists(ctx context.Context, spreadsheetID, sheetName string) (bool, error)
}

// StandingsExporter writes the current section's per-member standings to a
// Google Sheet, one row per member with cumulative decks and fame.
type StandingsExporter struct {
	api           SheetsAPI
	spreadsheetID string
	retry         config.RetryConfig
}

// Interface compliance check
var _ processing.StandingsExporterInterface = (*StandingsExporter)(nil)

// NewStandingsExporter creates an exporter targeting the given spreadsheet
func NewStandingsExporter(api SheetsAPI, spreadsheetID string) *StandingsExporter {
	return &StandingsExporter{
		api:           api,
		spreadsheetID: spreadsheetID,
		retry:         config.DefaultResilienceConfig.SheetWrite,
	}
}

// ExportStandings replaces the standings sheet contents with the current
// ledger's cumulative totals, sorted by fame descending.
func (e *StandingsExporter) ExportStandings(ctx context.Context, ledger *app.WarLedger) error {
	if ledger == nil || len(ledger.Days) == 0 {
		log.Debug().Msg("No war days to export, skipping standings update")
		return nil
	}

	if err := e.ensureSheet(ctx); err != nil {
		return err
	}

	rows := e.buildRows(ledger)

	clearRange := fmt.Sprintf("%s!A:Z", standingsSheetName)
	if err := e.withRetry(ctx, "clear standings", func(ctx context.Context) error {
		return e.api.ClearRange(ctx, e.spreadsheetID, clearRange)
	}); err != nil {
		return fmt.Errorf("failed to clear standings sheet: %w", err)
	}

	updateRange := fmt.Sprintf("%s!A1", standingsSheetName)
	if err := e.withRetry(ctx, "write standings", func(ctx context.Context) error {
		return e.api.UpdateRange(ctx, e.spreadsheetID, updateRange, rows)
	}); err != nil {
		return fmt.Errorf("failed to write standings sheet: %w", err)
	}

	log.Info().
		Int("rows", len(rows)-1).
		Str("sheet", standingsSheetName).
		Msg("Exported war standings")

	return nil
}

func (e *StandingsExporter) ensureSheet(ctx context.Context) error {
	exists, err := e.api.SheetExists(ctx, e.spreadsheetID, standingsSheetName)
	if err != nil {
		return fmt.Errorf("failed to check standings sheet: %w", err)
	}
	if exists {
		return nil
	}

	log.Info().Str("sheet", standingsSheetName).Msg("Creating standings sheet")
	if err := e.api.CreateSheet(ctx, e.spreadsheetID, standingsSheetName); err != nil {
		return fmt.Errorf("failed to create standings sheet: %w", err)
	}
	return nil
}

// buildRows assembles the header plus one row per member from the ledger's
// cumulative totals across all recorded days.
func (e *StandingsExporter) buildRows(ledger *app.WarLedger) [][]interface{} {
	decks := processing.Aggregate(ledger, processing.AllDays, processing.MetricDecks)
	fame := processing.Aggregate(ledger, processing.AllDays, processing.MetricFame)

	type standing struct {
		tag   string
		name  string
		decks int
		fame  int
	}

	standings := make([]standing, 0, len(decks.ParticipantTotals))
	for tag := range decks.ParticipantTotals {
		standings = append(standings, standing{
			tag:   tag,
			name:  latestName(ledger, tag),
			decks: decks.ParticipantTotals[tag],
			fame:  fame.ParticipantTotals[tag],
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].fame != standings[j].fame {
			return standings[i].fame > standings[j].fame
		}
		return standings[i].tag < standings[j].tag
	})

	rows := [][]interface{}{
		{"Player", "Tag", "Decks Used", "Fame", "Fame % of Max"},
	}
	for _, s := range standings {
		pctOfMax := ""
		if fame.MaxPossible > 0 {
			perMember := fame.MaxPossible / len(fame.ParticipantTotals)
			if perMember > 0 {
				pctOfMax = fmt.Sprintf("%.1f%%", 100*float64(s.fame)/float64(perMember))
			}
		}
		rows = append(rows, []interface{}{s.name, s.tag, s.decks, s.fame, pctOfMax})
	}

	return rows
}

// latestName returns the member's name from the highest-numbered day they
// appear on; tags are stable across renames, names are not.
func latestName(ledger *app.WarLedger, tag string) string {
	bestDay := 0
	name := ""
	for key, day := range ledger.Days {
		dayNumber, err := strconv.Atoi(key)
		if err != nil || dayNumber < bestDay {
			continue
		}
		if record, ok := day.Participants[tag]; ok {
			bestDay = dayNumber
			name = record.Name
		}
	}
	return name
}

func (e *StandingsExporter) withRetry(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= e.retry.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, e.retry.Timeout)
		err := fn(attemptCtx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt < e.retry.MaxAttempts {
			wait := e.retry.NextWait(attempt)
			log.Warn().
				Err(err).
				Str("operation", operation).
				Int("attempt", attempt).
				Dur("wait", wait).
				Msg("Sheet operation failed, retrying")

			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operation, e.retry.MaxAttempts, lastErr)
}
