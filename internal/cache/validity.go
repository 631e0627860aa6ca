package cache

import (
	"time"

	"sports-tracker/internal/domain"
	"sports-tracker/internal/timeutil"
)

const (
	// DefaultScheduleMaxAge bounds schedule reuse between fetches.
	DefaultScheduleMaxAge = 30 * time.Minute

	// Final scores don't change; an hour of reuse is safe.
	finalEventMaxAge = 60 * time.Minute
	// Live state changes fast, and Scheduled games may be postponed or
	// moved close to start.
	liveEventMaxAge      = 5 * time.Minute
	scheduledEventMaxAge = 5 * time.Minute
)

// EventValid reports whether a cached event can be trusted without a fresh
// schedule fetch. An event from a prior local calendar day is never trusted,
// however recently it was cached; otherwise the allowed age since the last
// completed cycle depends on the event's status.
func EventValid(event *domain.Event, lastCycleCompletedAt, now time.Time) bool {
	if event == nil || event.StartTime.IsZero() {
		return false
	}
	if !timeutil.SameLocalDay(event.StartTime, now) {
		return false
	}
	if lastCycleCompletedAt.IsZero() {
		return false
	}

	age := now.Sub(lastCycleCompletedAt)
	switch event.Status {
	case domain.StatusFinal:
		return age < finalEventMaxAge
	case domain.StatusLive:
		return age < liveEventMaxAge
	default:
		return age < scheduledEventMaxAge
	}
}
