package testutil

import (
	"encoding/json"
	"time"

	"sports-tracker/internal/domain"
	"sports-tracker/internal/league"
)

// StubLeague is a League with function hooks, defaulting to benign behavior.
type StubLeague struct {
	KeyValue   string
	ScheduleFn func(raw json.RawMessage, now time.Time, window time.Duration) (*domain.ScheduleSnapshot, error)
	LiveFn     func(raw json.RawMessage) (*domain.Event, error)
	PauseFn    func(event *domain.Event) time.Duration
	TeamsValue []league.Team
}

func (s *StubLeague) Key() string {
	if s.KeyValue == "" {
		return "stub"
	}
	return s.KeyValue
}

func (s *StubLeague) Name() string { return "Stub" }

func (s *StubLeague) ScheduleURL(teamID string) string { return "http://stub/schedule/" + teamID }
func (s *StubLeague) SummaryURL(eventID string) string { return "http://stub/summary/" + eventID }
func (s *StubLeague) LogoURL(teamID string) string     { return "http://stub/logo/" + teamID }

func (s *StubLeague) ParseSchedule(raw json.RawMessage, now time.Time, window time.Duration) (*domain.ScheduleSnapshot, error) {
	if s.ScheduleFn != nil {
		return s.ScheduleFn(raw, now, window)
	}
	return &domain.ScheduleSnapshot{}, nil
}

func (s *StubLeague) ParseLiveUpdate(raw json.RawMessage) (*domain.Event, error) {
	if s.LiveFn != nil {
		return s.LiveFn(raw)
	}
	var ev domain.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *StubLeague) PauseDelay(event *domain.Event) time.Duration {
	if s.PauseFn != nil {
		return s.PauseFn(event)
	}
	return time.Minute
}

func (s *StubLeague) Teams() []league.Team { return s.TeamsValue }

func (s *StubLeague) TeamIDByCode(code string) (string, bool) {
	for _, t := range s.TeamsValue {
		if t.Code == code {
			return t.ID, true
		}
	}
	return "", false
}
