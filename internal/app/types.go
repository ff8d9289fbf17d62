package app

import "time"

// CurrentWar represents the cumulative river-war state returned by the
// upstream clan API. All participant counters are running totals for the
// current war day or section; the API never exposes per-day figures directly.
type CurrentWar struct {
	SeasonID     int              `json:"seasonId"`
	SectionIndex int              `json:"sectionIndex"`
	PeriodIndex  int              `json:"periodIndex"`
	PeriodType   string           `json:"periodType"`
	Clan         WarClan          `json:"clan"`
	Participants []WarParticipant `json:"participants"`
}

// WarClan identifies the clan the war document belongs to
type WarClan struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

// WarParticipant is a single member's cumulative counters within a war document
type WarParticipant struct {
	Tag            string `json:"tag"`
	Name           string `json:"name"`
	Fame           int    `json:"fame"`
	DecksUsed      int    `json:"decksUsed"`
	DecksUsedToday int    `json:"decksUsedToday"`
}

// WarLedger is the persisted day-by-day record of the currently open war
// section. SeasonID and SectionIndex are nil only in the pristine state,
// before the first document has ever been merged.
//
// Days is keyed by war day number ("1".."4") as strings so the ledger
// round-trips through JSON without key conversion.
type WarLedger struct {
	SeasonID     *int                   `json:"seasonId"`
	SectionIndex *int                   `json:"sectionIndex"`
	Days         map[string]DaySnapshot `json:"days"`
}

// NewWarLedger returns a pristine, never-initialized ledger
func NewWarLedger() *WarLedger {
	return &WarLedger{
		Days: make(map[string]DaySnapshot),
	}
}

// IsPristine reports whether the ledger has never tracked a war section
func (l *WarLedger) IsPristine() bool {
	return l.SeasonID == nil || l.SectionIndex == nil
}

// Clone returns a deep copy of the ledger. The poller hands clones to
// read-side consumers so in-place merges never race with their reads.
func (l *WarLedger) Clone() *WarLedger {
	clone := NewWarLedger()
	if l.SeasonID != nil {
		seasonID := *l.SeasonID
		clone.SeasonID = &seasonID
	}
	if l.SectionIndex != nil {
		sectionIndex := *l.SectionIndex
		clone.SectionIndex = &sectionIndex
	}
	for key, day := range l.Days {
		participants := make(map[string]ParticipantDayRecord, len(day.Participants))
		for tag, record := range day.Participants {
			participants[tag] = record
		}
		clone.Days[key] = DaySnapshot{
			CapturedAt:   day.CapturedAt,
			Participants: participants,
		}
	}
	return clone
}

// DaySnapshot captures the cumulative standing of every participant as
// observed on a single war day. Participants is a sparse map: a member
// absent from a day's document simply has no record for that day, which is
// how joining or leaving mid-section is represented.
type DaySnapshot struct {
	CapturedAt   time.Time                      `json:"capturedAt"`
	Participants map[string]ParticipantDayRecord `json:"participants"`
}

// ParticipantDayRecord holds one member's cumulative counters for one day
type ParticipantDayRecord struct {
	Name           string `json:"name"`
	DecksUsed      int    `json:"decksUsed"`
	DecksUsedToday int    `json:"decksUsedToday"`
	Fame           int    `json:"fame"`
}
