// Package tracker drives the update loop: one cycle per tick, adaptive
// delays between ticks, and a forced re-check at every local midnight.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"sports-tracker/internal/cache"
	"sports-tracker/internal/domain"
	"sports-tracker/internal/league"
	"sports-tracker/internal/logging"
	"sports-tracker/internal/metrics"
	"sports-tracker/internal/planner"
	"sports-tracker/internal/selector"
	"sports-tracker/internal/timeutil"
)

// busyRetryDelay reschedules a tick that found a cycle already running.
const busyRetryDelay = 30 * time.Second

// Fetcher is the outbound HTTP capability the orchestrator needs.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string) (json.RawMessage, error)
	DownloadFile(ctx context.Context, url, dest string) error
}

// Source is one tracked league+team slot.
type Source struct {
	Key    string
	League league.League
	TeamID string
}

// Config wires an Orchestrator.
type Config struct {
	Sources        []Source
	Client         Fetcher
	Cache          *cache.Cache
	Icons          *cache.IconCache
	Logger         *slog.Logger
	Metrics        *metrics.Recorder
	LiveRefresh    time.Duration // live poll override; 0 defers to league pause delays
	ScheduleMaxAge time.Duration
	DebugMode      string // "", "live", "pre", "final", "offseason", "mixed"
	IconDir        string
	Now            func() time.Time
}

// Orchestrator owns the cycle state machine: Idle -> Updating -> Idle. The
// Updating guard is a plain boolean, so at most one cycle runs at a time for
// the whole process; per-source work inside a cycle fans out concurrently.
type Orchestrator struct {
	client         Fetcher
	cache          *cache.Cache
	icons          *cache.IconCache
	logger         *slog.Logger
	metrics        *metrics.Recorder
	liveRefresh    time.Duration
	scheduleMaxAge time.Duration
	debugMode      string
	iconDir        string
	now            func() time.Time

	mu          sync.Mutex
	sources     []Source
	updating    bool
	closed      bool
	timer       *time.Timer
	midnight    *time.Timer
	results     []domain.CycleResult
	lastCycleAt time.Time
	ctx         context.Context

	wg sync.WaitGroup
}

// New constructs an Orchestrator.
func New(cfg Config) *Orchestrator {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ScheduleMaxAge <= 0 {
		cfg.ScheduleMaxAge = cache.DefaultScheduleMaxAge
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.New()
	}
	return &Orchestrator{
		sources:        cfg.Sources,
		client:         cfg.Client,
		cache:          cfg.Cache,
		icons:          cfg.Icons,
		logger:         cfg.Logger,
		metrics:        cfg.Metrics,
		liveRefresh:    cfg.LiveRefresh,
		scheduleMaxAge: cfg.ScheduleMaxAge,
		debugMode:      cfg.DebugMode,
		iconDir:        cfg.IconDir,
		now:            cfg.Now,
		ctx:            context.Background(),
	}
}

// SetSources replaces the tracked sources, resets all cached state, and
// schedules an immediate cycle. Used at boot and when the user changes team
// or league selection.
func (o *Orchestrator) SetSources(sources []Source) {
	o.mu.Lock()
	o.sources = sources
	o.mu.Unlock()

	o.cache.ResetAll()

	o.mu.Lock()
	o.scheduleLocked(0)
	o.mu.Unlock()
}

// Sources returns a copy of the tracked sources.
func (o *Orchestrator) Sources() []Source {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Source, len(o.sources))
	copy(out, o.sources)
	return out
}

// Start arms the midnight rollover timer and schedules the first cycle.
// ctx bounds all outbound fetches the orchestrator issues.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.ctx = ctx
	o.scheduleMidnightLocked()
	o.scheduleLocked(0)
}

// Shutdown stops all timers and waits for an in-flight cycle to drain. It
// does not abort requests already on the wire; their results are discarded.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	if o.timer != nil {
		o.timer.Stop()
	}
	if o.midnight != nil {
		o.midnight.Stop()
	}
	o.mu.Unlock()

	o.wg.Wait()
}

// Results returns the per-source outcomes of the last completed cycle.
func (o *Orchestrator) Results() []domain.CycleResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]domain.CycleResult, len(o.results))
	copy(out, o.results)
	return out
}

// LastCycleAt returns when the last cycle completed; zero before the first.
func (o *Orchestrator) LastCycleAt() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastCycleAt
}

// Updating reports whether a cycle is currently running.
func (o *Orchestrator) Updating() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.updating
}

// tick attempts to start a cycle. If one is already running, the tick is
// pushed back rather than queued; cycles never overlap.
func (o *Orchestrator) tick() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	if o.updating {
		o.scheduleLocked(busyRetryDelay)
		o.mu.Unlock()
		return
	}
	o.updating = true
	ctx := o.ctx
	o.wg.Add(1)
	o.mu.Unlock()

	go o.runCycle(ctx)
}

// scheduleLocked arms the next tick. Callers hold o.mu.
func (o *Orchestrator) scheduleLocked(delay time.Duration) {
	if o.closed {
		return
	}
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(delay, o.tick)
}

// scheduleMidnightLocked forces a cycle at every local day boundary so
// "today" is re-derived even when all computed delays exceed the day.
func (o *Orchestrator) scheduleMidnightLocked() {
	if o.closed {
		return
	}
	if o.midnight != nil {
		o.midnight.Stop()
	}
	o.midnight = time.AfterFunc(timeutil.UntilMidnight(o.now()), func() {
		logging.Info(o.logger, "midnight rollover, forcing update")
		o.tick()
		o.mu.Lock()
		o.scheduleMidnightLocked()
		o.mu.Unlock()
	})
}

// runCycle performs one full update. Whatever happens, the cycle exits
// Updating and reschedules; the loop must never become permanently
// unscheduled.
func (o *Orchestrator) runCycle(ctx context.Context) {
	defer o.wg.Done()
	start := o.now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("update cycle panic: %v", r)
			logging.Error(o.logger, "update cycle failed", err)
			o.metrics.RecordCycle(o.now().Sub(start), 0, err)
			o.finishCycle(nil, planner.ErrorRetryDelay)
		}
	}()

	sources := o.Sources()

	var results []domain.CycleResult
	if o.debugMode != "" {
		results = o.debugResults(sources)
	} else {
		results = o.updateAll(ctx, sources)
	}

	now := o.now()
	sourceErrors := 0
	delays := make([]time.Duration, 0, len(results))
	for i := range results {
		if results[i].Err != nil {
			sourceErrors++
			results[i].Error = results[i].Err.Error()
		}
		delays = append(delays, planner.DelayForResult(results[i], sources[i].League.PauseDelay, o.liveRefresh, now))
	}
	delay := planner.Aggregate(delays, now)

	o.metrics.RecordCycle(now.Sub(start), sourceErrors, nil)
	logging.Info(o.logger, "update cycle complete",
		logging.FieldCount, len(results),
		"source_errors", sourceErrors,
		logging.FieldDurationMS, now.Sub(start).Milliseconds(),
		logging.FieldDelayMS, delay.Milliseconds(),
	)

	o.finishCycle(results, delay)
}

// finishCycle commits results, leaves Updating, and arms the next tick.
func (o *Orchestrator) finishCycle(results []domain.CycleResult, delay time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.updating = false
	if o.closed {
		return
	}
	if results != nil {
		o.results = results
		o.lastCycleAt = o.now()
	}
	o.scheduleLocked(delay)
}

// updateAll fans out one goroutine per source. The next-cycle delay is only
// computed after every source has resolved, success or error.
func (o *Orchestrator) updateAll(ctx context.Context, sources []Source) []domain.CycleResult {
	results := make([]domain.CycleResult, len(sources))
	var wg sync.WaitGroup
	for i := range sources {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					err := fmt.Errorf("source update panic: %v", r)
					logging.Error(o.logger, "source update failed", err,
						logging.FieldSource, sources[i].Key)
					results[i] = domain.CycleResult{
						SourceKey: sources[i].Key,
						League:    sources[i].League.Key(),
						TeamID:    sources[i].TeamID,
						Err:       err,
					}
				}
			}()
			results[i] = o.updateSource(ctx, sources[i])
		}(i)
	}
	wg.Wait()
	return results
}

// updateSource runs the full pipeline for one source. A failure here marks
// the source errored for this cycle without touching the others.
func (o *Orchestrator) updateSource(ctx context.Context, src Source) domain.CycleResult {
	res := domain.CycleResult{
		SourceKey: src.Key,
		League:    src.League.Key(),
		TeamID:    src.TeamID,
	}

	event, err := o.fetchCurrent(ctx, src)
	if err != nil {
		logging.Error(o.logger, "source update failed", err, logging.FieldSource, src.Key)
		res.Err = err
		return res
	}

	res.Event = event
	o.cache.SetCurrentEvent(src.Key, event)

	if event == nil {
		snapshot := o.cache.Schedule(src.Key)
		if selector.IsOffseason(snapshot) {
			res.IsOffseason = true
			if snapshot != nil {
				res.NextKnownDate = snapshot.NextKnownEventDate
			}
		}
	} else {
		o.prefetchIcons(ctx, src, event)
	}

	o.cache.MarkCycleCompleted(src.Key, o.now())
	return res
}

// fetchCurrent resolves the most relevant event for a source, consulting the
// cache before touching the network.
func (o *Orchestrator) fetchCurrent(ctx context.Context, src Source) (*domain.Event, error) {
	now := o.now()

	if cached := o.cache.CurrentEvent(src.Key); cached != nil {
		if cache.EventValid(cached, o.cache.LastCycleCompletedAt(src.Key), now) {
			// Only live sub-state moves fast enough to warrant a refresh.
			if cached.Status == domain.StatusLive {
				return o.refreshLive(ctx, src, cached), nil
			}
			return cached, nil
		}
		o.cache.SetCurrentEvent(src.Key, nil)
	}

	snapshot, err := o.fetchSchedule(ctx, src)
	if err != nil {
		return nil, err
	}

	event := selector.SelectRelevant(snapshot, timeutil.LocalDay(now), now)
	if event == nil {
		return nil, nil
	}
	return o.refreshLive(ctx, src, event), nil
}

// fetchSchedule returns the cached snapshot when fresh, otherwise fetches
// and stores a new one. A malformed payload degrades to an empty snapshot
// rather than an error; a network failure is a real error.
func (o *Orchestrator) fetchSchedule(ctx context.Context, src Source) (*domain.ScheduleSnapshot, error) {
	if o.cache.ScheduleFresh(src.Key, o.scheduleMaxAge) {
		return o.cache.Schedule(src.Key), nil
	}

	raw, err := o.client.FetchJSON(ctx, src.League.ScheduleURL(src.TeamID))
	if err != nil {
		return nil, err
	}

	snapshot, err := src.League.ParseSchedule(raw, o.now(), league.DefaultWindow)
	if err != nil {
		logging.Warn(o.logger, "dropping malformed schedule payload",
			logging.FieldSource, src.Key, "error", err)
		snapshot = &domain.ScheduleSnapshot{}
	}

	o.cache.SetSchedule(src.Key, snapshot)
	return snapshot, nil
}

// refreshLive fetches the summary endpoint for an event. Failures degrade to
// the event we already had; a slightly stale event beats an errored source.
func (o *Orchestrator) refreshLive(ctx context.Context, src Source, event *domain.Event) *domain.Event {
	raw, err := o.client.FetchJSON(ctx, src.League.SummaryURL(event.ID))
	if err != nil {
		logging.Warn(o.logger, "live refresh failed, reusing previous event",
			logging.FieldSource, src.Key, logging.FieldEventID, event.ID, "error", err)
		return event
	}

	updated, err := src.League.ParseLiveUpdate(raw)
	if err != nil {
		logging.Warn(o.logger, "dropping malformed live update",
			logging.FieldSource, src.Key, logging.FieldEventID, event.ID, "error", err)
		return event
	}
	return updated
}

// prefetchIcons downloads team logos for the event's sides, best effort.
func (o *Orchestrator) prefetchIcons(ctx context.Context, src Source, event *domain.Event) {
	if o.iconDir == "" || o.icons == nil {
		return
	}
	for _, teamID := range []string{event.Home.TeamID, event.Away.TeamID} {
		if _, ok := o.icons.Get(teamID); ok {
			continue
		}
		dest := filepath.Join(o.iconDir, src.League.Key()+"-"+teamID+".png")
		if err := o.client.DownloadFile(ctx, src.League.LogoURL(teamID), dest); err != nil {
			logging.Warn(o.logger, "icon download failed",
				logging.FieldLeague, src.League.Key(), "team_id", teamID, "error", err)
			continue
		}
		o.icons.Set(teamID, dest)
	}
}
