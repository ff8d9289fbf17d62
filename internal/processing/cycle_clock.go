package processing

// The war season runs on a fixed weekly cadence: each section is seven
// periods, the first three are training periods and the last four are
// scored war days.
const (
	PeriodsPerSection = 7
	TrainingPeriods   = 3
	WarDaysPerSection = 4
)

// PeriodClass is the result of classifying a raw period index.
type PeriodClass struct {
	DayNumber int
	Scored    bool
}

// ClassifyPeriod maps a raw period index onto its position within the
// section. Positions 0-2 are training periods; positions 3-6 are war days
// 1-4. A computed day below 1 is clamped to 1 so anomalous upstream indices
// never produce an unusable day number.
func ClassifyPeriod(periodIndex int) PeriodClass {
	position := periodIndex % PeriodsPerSection
	if position < 0 {
		position += PeriodsPerSection
	}

	if position < TrainingPeriods {
		return PeriodClass{DayNumber: 1, Scored: false}
	}

	day := position - TrainingPeriods + 1
	if day < 1 {
		day = 1
	}

	return PeriodClass{DayNumber: day, Scored: true}
}
