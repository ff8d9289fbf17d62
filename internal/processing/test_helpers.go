package processing

import (
	"strconv"
	"time"

	"clan_war_stats/internal/app"
)

// newWarDoc builds a cumulative war document for tests
func newWarDoc(seasonID, sectionIndex, periodIndex int, participants ...app.WarParticipant) *app.CurrentWar {
	if participants == nil {
		participants = []app.WarParticipant{}
	}
	return &app.CurrentWar{
		SeasonID:     seasonID,
		SectionIndex: sectionIndex,
		PeriodIndex:  periodIndex,
		PeriodType:   "warDay",
		Clan:         app.WarClan{Tag: "#TESTCLAN", Name: "Test Clan"},
		Participants: participants,
	}
}

// newOpenLedger builds a ledger already tracking the given section
func newOpenLedger(seasonID, sectionIndex int) *app.WarLedger {
	ledger := app.NewWarLedger()
	ledger.SeasonID = &seasonID
	ledger.SectionIndex = &sectionIndex
	return ledger
}

// addDay writes a day snapshot with the given participant records
func addDay(ledger *app.WarLedger, day int, records map[string]app.ParticipantDayRecord) {
	ledger.Days[strconv.Itoa(day)] = app.DaySnapshot{
		CapturedAt:   time.Date(2026, 1, day, 12, 0, 0, 0, time.UTC),
		Participants: records,
	}
}

// decksRecord builds a day record with only the deck counter set
func decksRecord(name string, decksUsed int) app.ParticipantDayRecord {
	return app.ParticipantDayRecord{Name: name, DecksUsed: decksUsed}
}
