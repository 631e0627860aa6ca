// Package planner computes how long the tracker can safely wait before the
// next poll, given the state of each tracked source.
package planner

import (
	"time"

	"sports-tracker/internal/domain"
	"sports-tracker/internal/timeutil"
)

const (
	oneMinute     = time.Minute
	fiveMinutes   = 5 * time.Minute
	thirtyMinutes = 30 * time.Minute
	oneHour       = time.Hour

	// ErrorRetryDelay is the fixed retry cadence for sources whose fetch
	// pipeline failed this cycle.
	ErrorRetryDelay = 5 * time.Minute
)

// PauseDelayFunc returns a live refresh delay honoring league-specific
// breaks in play. Injected so league logic never leaks into the planner.
type PauseDelayFunc func(event *domain.Event) time.Duration

// DelayFor returns the refresh delay for a single event. liveOverride, when
// positive, wins for live events (user configuration); otherwise the
// injected pause function decides. A nil event means a daily re-check at the
// next local midnight.
func DelayFor(event *domain.Event, pause PauseDelayFunc, liveOverride time.Duration, now time.Time) time.Duration {
	if event == nil {
		return NextMidnightDelay(now)
	}

	switch event.Status {
	case domain.StatusLive:
		if liveOverride > 0 {
			return liveOverride
		}
		if pause != nil {
			return pause(event)
		}
		return oneMinute

	case domain.StatusFinal:
		// Bound staleness without polling a finished game all night.
		until := timeutil.UntilMidnight(now)
		if until < thirtyMinutes {
			return until
		}
		return thirtyMinutes

	case domain.StatusScheduled:
		if !event.StartTime.IsZero() {
			untilStart := event.StartTime.Sub(now)
			if untilStart < fiveMinutes {
				return oneMinute
			}
			if untilStart < oneHour {
				return fiveMinutes
			}
		}
		return oneHour

	default:
		// Postponed, cancelled, anything unexpected: hourly is plenty.
		return oneHour
	}
}

// DelayForResult maps one cycle result to a delay: errored sources retry on
// a fixed cadence, sources without a relevant event wait for the daily
// rollover, everything else follows DelayFor.
func DelayForResult(result domain.CycleResult, pause PauseDelayFunc, liveOverride time.Duration, now time.Time) time.Duration {
	if result.Err != nil {
		return ErrorRetryDelay
	}
	return DelayFor(result.Event, pause, liveOverride, now)
}

// Aggregate reduces per-source delays to the single minimum safe delay. An
// empty set falls back to the next local midnight.
func Aggregate(delays []time.Duration, now time.Time) time.Duration {
	if len(delays) == 0 {
		return NextMidnightDelay(now)
	}
	min := delays[0]
	for _, d := range delays[1:] {
		if d < min {
			min = d
		}
	}
	return min
}

// NextMidnightDelay returns the time until the next local midnight, floored
// at one minute so a tick scheduled just before the boundary cannot spin.
func NextMidnightDelay(now time.Time) time.Duration {
	until := timeutil.UntilMidnight(now)
	if until < oneMinute {
		return oneMinute
	}
	return until
}
