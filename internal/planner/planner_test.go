package planner

import (
	"errors"
	"testing"
	"time"

	"sports-tracker/internal/domain"
	"sports-tracker/internal/testutil"
	"sports-tracker/internal/timeutil"
)

var now = time.Date(2025, 4, 9, 15, 0, 0, 0, time.Local)

func TestDelayForLive(t *testing.T) {
	live := testutil.SampleEvent("1", domain.StatusLive, now.Add(-time.Hour))

	if got := DelayFor(live, nil, 0, now); got != time.Minute {
		t.Fatalf("expected 1m default live delay, got %v", got)
	}

	pause := func(*domain.Event) time.Duration { return 2 * time.Minute }
	if got := DelayFor(live, pause, 0, now); got != 2*time.Minute {
		t.Fatalf("expected pause delay, got %v", got)
	}

	// User configuration wins over league pause logic.
	if got := DelayFor(live, pause, 45*time.Second, now); got != 45*time.Second {
		t.Fatalf("expected live override, got %v", got)
	}
}

func TestDelayForFinal(t *testing.T) {
	final := testutil.SampleEvent("1", domain.StatusFinal, now.Add(-2*time.Hour))

	if got := DelayFor(final, nil, 0, now); got != 30*time.Minute {
		t.Fatalf("expected 30m, got %v", got)
	}

	nearMidnight := time.Date(2025, 4, 9, 23, 45, 0, 0, time.Local)
	if got := DelayFor(final, nil, 0, nearMidnight); got != 15*time.Minute {
		t.Fatalf("expected midnight-capped delay, got %v", got)
	}
}

func TestDelayForScheduled(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		want  time.Duration
	}{
		{"imminent", now.Add(3 * time.Minute), time.Minute},
		{"soon", now.Add(30 * time.Minute), 5 * time.Minute},
		{"later today", now.Add(3 * time.Hour), time.Hour},
		{"already past start", now.Add(-time.Minute), time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := testutil.SampleEvent("1", domain.StatusScheduled, tc.start)
			if got := DelayFor(ev, nil, 0, now); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestDelayForNilEventWaitsForMidnight(t *testing.T) {
	want := timeutil.UntilMidnight(now)
	if got := DelayFor(nil, nil, 0, now); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDelayForUnknownStatus(t *testing.T) {
	ev := testutil.SampleEvent("1", domain.StatusPostponed, now.Add(2*time.Hour))
	if got := DelayFor(ev, nil, 0, now); got != time.Hour {
		t.Fatalf("expected 1h, got %v", got)
	}
}

func TestDelayForResultError(t *testing.T) {
	res := domain.CycleResult{Err: errors.New("network down")}
	if got := DelayForResult(res, nil, 0, now); got != ErrorRetryDelay {
		t.Fatalf("expected error retry delay, got %v", got)
	}
}

func TestAggregateTakesMinimum(t *testing.T) {
	delays := []time.Duration{time.Hour, time.Minute, 30 * time.Minute}
	if got := Aggregate(delays, now); got != time.Minute {
		t.Fatalf("expected 1m, got %v", got)
	}
}

func TestAggregateEmptyWaitsForMidnight(t *testing.T) {
	want := timeutil.UntilMidnight(now)
	if got := Aggregate(nil, now); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextMidnightDelayFloor(t *testing.T) {
	justBefore := time.Date(2025, 4, 9, 23, 59, 30, 0, time.Local)
	if got := NextMidnightDelay(justBefore); got != time.Minute {
		t.Fatalf("expected 1m floor, got %v", got)
	}
}
