package metrics

import (
	"sync"
	"time"
)

type fetchStats struct {
	attempts        int
	errors          int
	rateLimitHits   int
	dedupHits       int
	lastCallLatency time.Duration
}

type cycleStats struct {
	cycles       int
	errors       int
	sourceErrors int
	lastDuration time.Duration
}

// Recorder captures lightweight, in-memory metrics about fetches and update
// cycles. It is intentionally simple so it can be swapped for a real backend
// later; when otel instruments are attached it forwards to them as well.
type Recorder struct {
	mu    sync.Mutex
	fetch fetchStats
	cycle cycleStats
	otel  *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{otel: otel}
}

// RecordFetchAttempt increments fetch counters and stores the last observed latency.
func (r *Recorder) RecordFetchAttempt(duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.fetch.attempts++
	r.fetch.lastCallLatency = duration
	if err != nil {
		r.fetch.errors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordFetchAttempt(duration, err)
	}
}

// RecordRateLimit tracks an upstream 429 response.
func (r *Recorder) RecordRateLimit() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.fetch.rateLimitHits++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordRateLimit()
	}
}

// RecordDedupHit tracks a caller that joined an already in-flight request.
func (r *Recorder) RecordDedupHit() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.fetch.dedupHits++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordDedupHit()
	}
}

// RecordCycle tracks one orchestrator update cycle.
func (r *Recorder) RecordCycle(duration time.Duration, sourceErrors int, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.cycle.cycles++
	r.cycle.lastDuration = duration
	r.cycle.sourceErrors += sourceErrors
	if err != nil {
		r.cycle.errors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordCycle(duration, sourceErrors, err)
	}
}

// Snapshot is a copy of the current counters.
type Snapshot struct {
	FetchAttempts   int
	FetchErrors     int
	RateLimitHits   int
	DedupHits       int
	LastCallLatency time.Duration
	Cycles          int
	CycleErrors     int
	SourceErrors    int
	LastCycle       time.Duration
}

func (r *Recorder) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		FetchAttempts:   r.fetch.attempts,
		FetchErrors:     r.fetch.errors,
		RateLimitHits:   r.fetch.rateLimitHits,
		DedupHits:       r.fetch.dedupHits,
		LastCallLatency: r.fetch.lastCallLatency,
		Cycles:          r.cycle.cycles,
		CycleErrors:     r.cycle.errors,
		SourceErrors:    r.cycle.sourceErrors,
		LastCycle:       r.cycle.lastDuration,
	}
}

// FetchAttempts returns the total fetch attempts recorded.
func (r *Recorder) FetchAttempts() int { return r.Snapshot().FetchAttempts }

// FetchErrors returns the total failed fetch attempts recorded.
func (r *Recorder) FetchErrors() int { return r.Snapshot().FetchErrors }

// RateLimitHits returns the number of 429 responses seen.
func (r *Recorder) RateLimitHits() int { return r.Snapshot().RateLimitHits }

// DedupHits returns the number of deduplicated fetch calls.
func (r *Recorder) DedupHits() int { return r.Snapshot().DedupHits }

// Cycles returns the number of completed update cycles.
func (r *Recorder) Cycles() int { return r.Snapshot().Cycles }
