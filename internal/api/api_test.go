package api

import (
	"net/http"
	"testing"
	"time"

	"sports-tracker/internal/domain"
	"sports-tracker/internal/testutil"
	"sports-tracker/internal/tracker"
)

type stubTracker struct {
	sources  []tracker.Source
	results  []domain.CycleResult
	last     time.Time
	updating bool
}

func (s *stubTracker) Sources() []tracker.Source     { return s.sources }
func (s *stubTracker) Results() []domain.CycleResult { return s.results }
func (s *stubTracker) LastCycleAt() time.Time        { return s.last }
func (s *stubTracker) Updating() bool                { return s.updating }

type stubStore map[string]*domain.ScheduleSnapshot

func (s stubStore) Schedule(key string) *domain.ScheduleSnapshot { return s[key] }

func newTestServer(tr *stubTracker, store stubStore) http.Handler {
	s := New(tr, store, testutil.NewTestLogger(), "sports-tracker", "test", "America/New_York")
	return s.Router()
}

func TestHealthz(t *testing.T) {
	h := newTestServer(&stubTracker{}, stubStore{})
	rr := testutil.Serve(h, http.MethodGet, "/healthz", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestReadyzBeforeFirstCycle(t *testing.T) {
	h := newTestServer(&stubTracker{}, stubStore{})
	rr := testutil.Serve(h, http.MethodGet, "/readyz", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestReadyzAfterFirstCycle(t *testing.T) {
	h := newTestServer(&stubTracker{last: time.Now()}, stubStore{})
	rr := testutil.Serve(h, http.MethodGet, "/readyz", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestStatus(t *testing.T) {
	last := time.Date(2025, 4, 9, 15, 0, 0, 0, time.UTC)
	tr := &stubTracker{
		last:     last,
		updating: true,
		results: []domain.CycleResult{{
			SourceKey: "mlb:23",
			League:    "mlb",
			TeamID:    "23",
			Event:     testutil.SampleEvent("401", domain.StatusLive, last),
		}},
	}
	h := newTestServer(tr, stubStore{})

	rr := testutil.Serve(h, http.MethodGet, "/status", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var got statusResponse
	testutil.DecodeJSON(t, rr, &got)
	if got.Service != "sports-tracker" || got.Timezone != "America/New_York" {
		t.Fatalf("unexpected identity fields: %+v", got)
	}
	if !got.Updating {
		t.Fatal("expected updating flag")
	}
	if got.LastCycleAt == nil || !got.LastCycleAt.Equal(last) {
		t.Fatalf("unexpected last cycle: %v", got.LastCycleAt)
	}
	if len(got.Results) != 1 || got.Results[0].Event.ID != "401" {
		t.Fatalf("unexpected results: %+v", got.Results)
	}
}

func TestSources(t *testing.T) {
	tr := &stubTracker{sources: []tracker.Source{{
		Key:    "nhl:16",
		League: &testutil.StubLeague{KeyValue: "nhl"},
		TeamID: "16",
	}}}
	h := newTestServer(tr, stubStore{})

	rr := testutil.Serve(h, http.MethodGet, "/sources", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var got []sourceInfo
	testutil.DecodeJSON(t, rr, &got)
	if len(got) != 1 || got[0].Key != "nhl:16" || got[0].League != "nhl" || got[0].TeamID != "16" {
		t.Fatalf("unexpected sources: %+v", got)
	}
}

func TestScheduleKnownSource(t *testing.T) {
	snap := testutil.SnapshotOf(testutil.SampleEvent("401", domain.StatusScheduled, time.Now().Add(2*time.Hour)))
	h := newTestServer(&stubTracker{}, stubStore{"mlb:23": snap})

	rr := testutil.Serve(h, http.MethodGet, "/sources/mlb:23/schedule", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var got domain.ScheduleSnapshot
	testutil.DecodeJSON(t, rr, &got)
	if len(got.Days) != 1 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestScheduleUnknownSource(t *testing.T) {
	h := newTestServer(&stubTracker{}, stubStore{})
	rr := testutil.Serve(h, http.MethodGet, "/sources/nope/schedule", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}
