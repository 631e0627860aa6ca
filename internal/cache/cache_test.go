package cache

import (
	"testing"
	"time"

	"sports-tracker/internal/domain"
)

func TestCurrentEventRoundTrip(t *testing.T) {
	c := New()
	key := "mlb:23"

	if got := c.CurrentEvent(key); got != nil {
		t.Fatalf("expected nil for unknown source, got %+v", got)
	}

	ev := eventAt(domain.StatusLive, time.Now())
	c.SetCurrentEvent(key, ev)
	if got := c.CurrentEvent(key); got != ev {
		t.Fatal("expected stored event back")
	}

	c.SetCurrentEvent(key, nil)
	if got := c.CurrentEvent(key); got != nil {
		t.Fatal("expected explicit nil to clear the event")
	}
}

func TestEventListenerNotified(t *testing.T) {
	c := New()
	var gotKey string
	var gotEvent *domain.Event
	c.OnEventChanged(func(key string, event *domain.Event) {
		gotKey, gotEvent = key, event
	})

	ev := eventAt(domain.StatusFinal, time.Now())
	c.SetCurrentEvent("nhl:5", ev)

	if gotKey != "nhl:5" || gotEvent != ev {
		t.Fatalf("listener saw %q %+v", gotKey, gotEvent)
	}
}

func TestScheduleFresh(t *testing.T) {
	c := New()
	key := "nfl:23"

	now := time.Date(2025, 4, 9, 12, 0, 0, 0, time.Local)
	c.now = func() time.Time { return now }

	if c.ScheduleFresh(key, 30*time.Minute) {
		t.Fatal("expected no schedule to be stale")
	}

	c.SetSchedule(key, &domain.ScheduleSnapshot{})
	if !c.ScheduleFresh(key, 30*time.Minute) {
		t.Fatal("expected just-stored schedule to be fresh")
	}

	now = now.Add(31 * time.Minute)
	if c.ScheduleFresh(key, 30*time.Minute) {
		t.Fatal("expected schedule to expire after max age")
	}
}

func TestMarkCycleCompleted(t *testing.T) {
	c := New()
	at := time.Date(2025, 4, 9, 12, 0, 0, 0, time.Local)

	if !c.LastCycleCompletedAt("x").IsZero() {
		t.Fatal("expected zero stamp before any cycle")
	}
	c.MarkCycleCompleted("x", at)
	if got := c.LastCycleCompletedAt("x"); !got.Equal(at) {
		t.Fatalf("expected %v, got %v", at, got)
	}
}

func TestResetAll(t *testing.T) {
	c := New()
	c.SetCurrentEvent("a", eventAt(domain.StatusLive, time.Now()))
	c.SetSchedule("a", &domain.ScheduleSnapshot{})

	resets := 0
	c.OnReset(func() { resets++ })

	c.ResetAll()

	if c.CurrentEvent("a") != nil || c.Schedule("a") != nil {
		t.Fatal("expected all state cleared")
	}
	if resets != 1 {
		t.Fatalf("expected 1 reset notification, got %d", resets)
	}
}

func TestResetSingleSource(t *testing.T) {
	c := New()
	c.SetCurrentEvent("a", eventAt(domain.StatusLive, time.Now()))
	c.SetCurrentEvent("b", eventAt(domain.StatusFinal, time.Now()))

	c.Reset("a")

	if c.CurrentEvent("a") != nil {
		t.Fatal("expected source a cleared")
	}
	if c.CurrentEvent("b") == nil {
		t.Fatal("expected source b untouched")
	}
}
