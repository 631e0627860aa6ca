package domain

import (
	"errors"
	"time"

	"sports-tracker/internal/timeutil"
)

// Status is the canonical event lifecycle state, independent of any
// provider's raw status vocabulary.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusLive      Status = "LIVE"
	StatusFinal     Status = "FINAL"
	StatusPostponed Status = "POSTPONED"
	StatusCancelled Status = "CANCELLED"
)

// Side is one team's slot in an event.
type Side struct {
	TeamID       string `json:"teamId"`
	Abbreviation string `json:"abbreviation"`
	Score        int    `json:"score"`
}

// Event is one sporting contest. Events are immutable once constructed; a
// new fetch produces a new value, never an in-place mutation.
type Event struct {
	ID           string    `json:"id"`
	StartTime    time.Time `json:"startTime"`
	Home         Side      `json:"home"`
	Away         Side      `json:"away"`
	Status       Status    `json:"status"`
	StatusDetail string    `json:"statusDetail"`
	Venue        string    `json:"venue,omitempty"`
	// Live holds league-specific in-play detail and is only meaningful when
	// Status is StatusLive.
	Live any `json:"live,omitempty"`
}

var (
	ErrMissingStartTime = errors.New("event missing start time")
	ErrMissingTeam      = errors.New("event missing team id or abbreviation")
	ErrSameTeam         = errors.New("event home and away teams are identical")
	ErrNegativeScore    = errors.New("event score is negative")
)

// Validate reports whether the event satisfies the construction invariants.
// Events failing validation are rejected at the parsing boundary and never
// enter the cache or selection pipeline.
func (e *Event) Validate() error {
	if e.StartTime.IsZero() {
		return ErrMissingStartTime
	}
	if e.Home.TeamID == "" || e.Away.TeamID == "" ||
		e.Home.Abbreviation == "" || e.Away.Abbreviation == "" {
		return ErrMissingTeam
	}
	if e.Home.TeamID == e.Away.TeamID {
		return ErrSameTeam
	}
	if e.Home.Score < 0 || e.Away.Score < 0 {
		return ErrNegativeScore
	}
	return nil
}

// LocalDay returns the event's calendar day in local time.
func (e *Event) LocalDay() string {
	return timeutil.LocalDay(e.StartTime)
}

// DaySchedule groups the events of a single local calendar day.
type DaySchedule struct {
	Date   string  `json:"date"`
	Events []Event `json:"events"`
}

// ScheduleSnapshot is the result of one schedule fetch: day buckets sorted
// ascending by date, covering a fixed look-ahead window. NextKnownEventDate
// retains the earliest future event outside the window for offseason
// countdown purposes.
type ScheduleSnapshot struct {
	Days               []DaySchedule `json:"days"`
	NextKnownEventDate *time.Time    `json:"nextKnownEventDate,omitempty"`
}

// HasEvents reports whether any day bucket contains at least one event.
func (s *ScheduleSnapshot) HasEvents() bool {
	if s == nil {
		return false
	}
	for _, day := range s.Days {
		if len(day.Events) > 0 {
			return true
		}
	}
	return false
}

// CycleResult is the per-source outcome of one update cycle, consumed by
// the status API and change listeners.
type CycleResult struct {
	SourceKey     string     `json:"sourceKey"`
	League        string     `json:"league"`
	TeamID        string     `json:"teamId"`
	Event         *Event     `json:"event,omitempty"`
	Err           error      `json:"-"`
	Error         string     `json:"error,omitempty"`
	IsOffseason   bool       `json:"isOffseason"`
	NextKnownDate *time.Time `json:"nextKnownDate,omitempty"`
}
