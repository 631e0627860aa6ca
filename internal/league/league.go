package league

import (
	"encoding/json"
	"time"

	"sports-tracker/internal/domain"
)

// DefaultWindow is the schedule look-ahead window.
const DefaultWindow = 30 * 24 * time.Hour

// Team is one roster entry: the stable provider id, the short code users
// configure, and the display abbreviation.
type Team struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Abbrev string `json:"abbrev"`
	Name   string `json:"name"`
}

// League is the per-league capability set the sync engine depends on. The
// engine never touches concrete league types; behavioral differences (live
// detail shape, pause delays, API paths) live behind this interface.
type League interface {
	// Key is the short identifier used in source keys ("mlb", "nfl", "nhl").
	Key() string
	Name() string

	ScheduleURL(teamID string) string
	SummaryURL(eventID string) string
	LogoURL(teamID string) string

	// ParseSchedule maps a raw schedule payload into day buckets covering
	// [now, now+window], retaining the earliest known future event date.
	ParseSchedule(raw json.RawMessage, now time.Time, window time.Duration) (*domain.ScheduleSnapshot, error)
	// ParseLiveUpdate maps a raw summary payload into a refreshed event.
	ParseLiveUpdate(raw json.RawMessage) (*domain.Event, error)

	// PauseDelay returns the live refresh delay honoring known breaks in
	// play (halftime, intermission).
	PauseDelay(event *domain.Event) time.Duration

	Teams() []Team
	TeamIDByCode(code string) (string, bool)
}
