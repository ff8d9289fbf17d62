package processing

import (
	"sort"
	"strconv"

	"clan_war_stats/internal/app"
)

// Metric selects which cumulative counter a delta is reconstructed from.
type Metric string

const (
	MetricDecks Metric = "decks"
	MetricFame  Metric = "fame"
)

// Per-participant daily caps, used to derive the theoretical maximum for
// percentage-of-max figures.
const (
	MaxDecksPerDay = 4
	MaxFamePerDay  = 900
)

// AllDays selects every day present in the ledger when passed as a day filter.
const AllDays = 0

// AggregateResult holds reconstructed non-cumulative totals for a day filter.
type AggregateResult struct {
	Total             int
	ParticipantTotals map[string]int
	MaxPossible       int
}

// DailyDelta reconstructs one participant's non-cumulative contribution for
// a single war day: cumulative(day) minus cumulative(day-1).
//
// The predecessor is always the ledger's actual day-1 entry looked up by day
// number. Resolving the predecessor positionally, from whatever filtered or
// sorted slice a caller happens to iterate, produces wrong deltas as soon as
// a day is missing; the lookup here is deliberately keyed.
//
// A participant or day absent from the ledger counts as cumulative zero, and
// a negative difference clamps to zero: cumulative counters are expected to
// be non-decreasing, so a decrease is a data anomaly rather than a real
// negative contribution.
func DailyDelta(ledger *app.WarLedger, dayNumber int, tag string, metric Metric) int {
	current := cumulativeValue(ledger, dayNumber, tag, metric)
	previous := cumulativeValue(ledger, dayNumber-1, tag, metric)

	delta := current - previous
	if delta < 0 {
		return 0
	}
	return delta
}

// Aggregate reconstructs totals for the given day filter. dayFilter is a war
// day number, or AllDays to sum the reconstructed per-day deltas across every
// day present in the ledger. Summing final cumulative values instead would
// double-count every earlier day.
func Aggregate(ledger *app.WarLedger, dayFilter int, metric Metric) AggregateResult {
	days := includedDays(ledger, dayFilter)
	participants := participantUnion(ledger, days)

	result := AggregateResult{
		ParticipantTotals: make(map[string]int, len(participants)),
	}

	for _, tag := range participants {
		total := 0
		for _, day := range days {
			if _, present := dayRecord(ledger, day, tag); !present {
				continue
			}
			total += DailyDelta(ledger, day, tag, metric)
		}
		result.ParticipantTotals[tag] = total
		result.Total += total
	}

	// The maximum is derived from the actual participant and day counts,
	// never a fixed roster size, so percent-of-max can't exceed 100 under
	// correct accounting.
	result.MaxPossible = len(participants) * perDayCap(metric) * len(days)

	return result
}

// includedDays resolves a day filter into the sorted day numbers to sum over.
// Day keys that don't parse as positive integers are skipped.
func includedDays(ledger *app.WarLedger, dayFilter int) []int {
	if dayFilter != AllDays {
		return []int{dayFilter}
	}

	var days []int
	for key := range ledger.Days {
		day, err := strconv.Atoi(key)
		if err != nil || day < 1 {
			continue
		}
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}

// participantUnion collects every tag appearing on any of the given days
func participantUnion(ledger *app.WarLedger, days []int) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, day := range days {
		snapshot, ok := ledger.Days[strconv.Itoa(day)]
		if !ok {
			continue
		}
		for tag := range snapshot.Participants {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

func dayRecord(ledger *app.WarLedger, dayNumber int, tag string) (app.ParticipantDayRecord, bool) {
	snapshot, ok := ledger.Days[strconv.Itoa(dayNumber)]
	if !ok {
		return app.ParticipantDayRecord{}, false
	}
	record, ok := snapshot.Participants[tag]
	return record, ok
}

func cumulativeValue(ledger *app.WarLedger, dayNumber int, tag string, metric Metric) int {
	record, ok := dayRecord(ledger, dayNumber, tag)
	if !ok {
		return 0
	}
	if metric == MetricFame {
		return record.Fame
	}
	return record.DecksUsed
}

func perDayCap(metric Metric) int {
	if metric == MetricFame {
		return MaxFamePerDay
	}
	return MaxDecksPerDay
}
