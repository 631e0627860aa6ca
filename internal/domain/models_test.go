package domain

import (
	"errors"
	"testing"
	"time"
)

func validEvent() Event {
	return Event{
		ID:        "401",
		StartTime: time.Date(2025, 4, 9, 19, 0, 0, 0, time.Local),
		Home:      Side{TeamID: "23", Abbreviation: "PIT"},
		Away:      Side{TeamID: "10", Abbreviation: "CHC"},
		Status:    StatusScheduled,
	}
}

func TestValidateAcceptsWellFormedEvent(t *testing.T) {
	ev := validEvent()
	if err := ev.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Event)
		want   error
	}{
		{"missing start time", func(e *Event) { e.StartTime = time.Time{} }, ErrMissingStartTime},
		{"missing home team id", func(e *Event) { e.Home.TeamID = "" }, ErrMissingTeam},
		{"missing away abbreviation", func(e *Event) { e.Away.Abbreviation = "" }, ErrMissingTeam},
		{"same team both sides", func(e *Event) { e.Away.TeamID = e.Home.TeamID }, ErrSameTeam},
		{"negative home score", func(e *Event) { e.Home.Score = -1 }, ErrNegativeScore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := validEvent()
			tc.mutate(&ev)
			if err := ev.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestHasEvents(t *testing.T) {
	var nilSnap *ScheduleSnapshot
	if nilSnap.HasEvents() {
		t.Fatal("nil snapshot must report no events")
	}

	empty := &ScheduleSnapshot{Days: []DaySchedule{{Date: "2025-04-09"}}}
	if empty.HasEvents() {
		t.Fatal("snapshot with only empty day buckets must report no events")
	}

	full := &ScheduleSnapshot{Days: []DaySchedule{{Date: "2025-04-09", Events: []Event{validEvent()}}}}
	if !full.HasEvents() {
		t.Fatal("expected events to be reported")
	}
}

func TestLocalDay(t *testing.T) {
	ev := validEvent()
	if got := ev.LocalDay(); got != "2025-04-09" {
		t.Fatalf("expected 2025-04-09, got %s", got)
	}
}
