package fetch

import (
	"testing"
	"time"
)

func TestRateLimitBackOffDoubles(t *testing.T) {
	bo := rateLimitBackOff(time.Second)
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	for i, w := range want {
		if got := bo.NextBackOff(); got != w {
			t.Fatalf("step %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestLinearBackOffGrowsByBase(t *testing.T) {
	bo := newLinearBackOff(time.Second)
	want := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}
	for i, w := range want {
		if got := bo.NextBackOff(); got != w {
			t.Fatalf("step %d: expected %v, got %v", i, w, got)
		}
	}

	bo.Reset()
	if got := bo.NextBackOff(); got != time.Second {
		t.Fatalf("expected reset to restart the schedule, got %v", got)
	}
}
