package warehouse

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog/log"

	"clan_war_stats/internal/app"
	"clan_war_stats/internal/processing"
)

const deltaTableName = "war_day_deltas"

// DeltaRow is one member's reconstructed daily activity, streamed to
// BigQuery once per war day.
type DeltaRow struct {
	SeasonID     int       `bigquery:"season_id"`
	SectionIndex int       `bigquery:"section_index"`
	DayNumber    int       `bigquery:"day_number"`
	MemberTag    string    `bigquery:"member_tag"`
	MemberName   string    `bigquery:"member_name"`
	DecksDelta   int       `bigquery:"decks_delta"`
	FameDelta    int       `bigquery:"fame_delta"`
	CapturedAt   time.Time `bigquery:"captured_at"`
	InsertedAt   time.Time `bigquery:"inserted_at"`
}

// DeltaSink streams per-day deltas into a BigQuery dataset
type DeltaSink struct {
	client  *bigquery.Client
	dataset string
}

// Interface compliance check
var _ processing.DeltaSinkInterface = (*DeltaSink)(nil)

// NewDeltaSink creates a sink writing into the given project and dataset.
// The table is expected to exist with a schema matching DeltaRow.
func NewDeltaSink(ctx context.Context, projectID, dataset string) (*DeltaSink, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create bigquery client: %w", err)
	}

	return &DeltaSink{
		client:  client,
		dataset: dataset,
	}, nil
}

// Close releases the underlying BigQuery client
func (s *DeltaSink) Close() error {
	return s.client.Close()
}

// WriteDayDeltas reconstructs the given day's per-member deltas from the
// ledger and streams one row per member. Days the ledger does not hold are
// a no-op.
func (s *DeltaSink) WriteDayDeltas(ctx context.Context, ledger *app.WarLedger, dayNumber int) error {
	if ledger == nil || ledger.IsPristine() {
		return nil
	}

	day, ok := ledger.Days[strconv.Itoa(dayNumber)]
	if !ok {
		log.Debug().Int("day_number", dayNumber).Msg("No snapshot for day, skipping warehouse write")
		return nil
	}

	now := time.Now().UTC()
	rows := make([]*DeltaRow, 0, len(day.Participants))
	for tag, record := range day.Participants {
		rows = append(rows, &DeltaRow{
			SeasonID:     *ledger.SeasonID,
			SectionIndex: *ledger.SectionIndex,
			DayNumber:    dayNumber,
			MemberTag:    tag,
			MemberName:   record.Name,
			DecksDelta:   processing.DailyDelta(ledger, dayNumber, tag, processing.MetricDecks),
			FameDelta:    processing.DailyDelta(ledger, dayNumber, tag, processing.MetricFame),
			CapturedAt:   day.CapturedAt,
			InsertedAt:   now,
		})
	}

	inserter := s.client.Dataset(s.dataset).Table(deltaTableName).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("failed to stream %d delta rows: %w", len(rows), err)
	}

	log.Info().
		Int("day_number", dayNumber).
		Int("rows", len(rows)).
		Msg("Streamed day deltas to warehouse")

	return nil
}
