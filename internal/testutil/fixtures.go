package testutil

import (
	"time"

	"sports-tracker/internal/domain"
)

// SampleEvent returns a minimal event fixture with the provided id, status,
// and start time.
func SampleEvent(id string, status domain.Status, start time.Time) *domain.Event {
	return &domain.Event{
		ID:        id,
		StartTime: start,
		Home:      domain.Side{TeamID: "1", Abbreviation: "HOM"},
		Away:      domain.Side{TeamID: "2", Abbreviation: "AWY"},
		Status:    status,
	}
}

// SnapshotOf buckets the given events into a snapshot by local calendar day.
func SnapshotOf(events ...*domain.Event) *domain.ScheduleSnapshot {
	byDay := map[string][]domain.Event{}
	var order []string
	for _, ev := range events {
		day := ev.StartTime.Local().Format("2006-01-02")
		if _, ok := byDay[day]; !ok {
			order = append(order, day)
		}
		byDay[day] = append(byDay[day], *ev)
	}
	snap := &domain.ScheduleSnapshot{}
	for _, day := range order {
		snap.Days = append(snap.Days, domain.DaySchedule{Date: day, Events: byDay[day]})
	}
	return snap
}
