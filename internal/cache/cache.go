package cache

import (
	"sync"
	"time"

	"sports-tracker/internal/domain"
)

// entry is the cached state for one tracked league+team pair. Entries are
// replaced whole, never partially mutated, so concurrent readers always see
// the last committed value.
type entry struct {
	current              *domain.Event
	schedule             *domain.ScheduleSnapshot
	scheduleFetchedAt    time.Time
	lastCycleCompletedAt time.Time
}

// EventListener observes current-event changes for a source.
type EventListener func(sourceKey string, event *domain.Event)

// ResetListener observes full state resets.
type ResetListener func()

// Cache keeps per-source tracking state: the current event, the latest
// schedule snapshot, and freshness stamps. It is the single owner of that
// state; the orchestrator is its only writer.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	onEvent []EventListener
	onReset []ResetListener
	now     func() time.Time
}

// New constructs an empty Cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// OnEventChanged registers a listener notified after every SetCurrentEvent.
func (c *Cache) OnEventChanged(fn EventListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvent = append(c.onEvent, fn)
}

// OnReset registers a listener notified after ResetAll.
func (c *Cache) OnReset(fn ResetListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onReset = append(c.onReset, fn)
}

// CurrentEvent returns the cached current event for the source, or nil.
func (c *Cache) CurrentEvent(sourceKey string) *domain.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[sourceKey].current
}

// SetCurrentEvent overwrites the current event unconditionally and notifies
// change listeners.
func (c *Cache) SetCurrentEvent(sourceKey string, event *domain.Event) {
	c.mu.Lock()
	e := c.entries[sourceKey]
	e.current = event
	c.entries[sourceKey] = e
	listeners := make([]EventListener, len(c.onEvent))
	copy(listeners, c.onEvent)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(sourceKey, event)
	}
}

// Schedule returns the cached schedule snapshot for the source, or nil.
func (c *Cache) Schedule(sourceKey string) *domain.ScheduleSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[sourceKey].schedule
}

// SetSchedule stores a snapshot and stamps its fetch time.
func (c *Cache) SetSchedule(sourceKey string, snapshot *domain.ScheduleSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[sourceKey]
	e.schedule = snapshot
	e.scheduleFetchedAt = c.now()
	c.entries[sourceKey] = e
}

// ScheduleFresh reports whether a schedule exists and was fetched within
// maxAge.
func (c *Cache) ScheduleFresh(sourceKey string, maxAge time.Duration) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e := c.entries[sourceKey]
	if e.schedule == nil || e.scheduleFetchedAt.IsZero() {
		return false
	}
	return c.now().Sub(e.scheduleFetchedAt) < maxAge
}

// MarkCycleCompleted stamps the completion of an update cycle for the source.
func (c *Cache) MarkCycleCompleted(sourceKey string, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[sourceKey]
	e.lastCycleCompletedAt = at
	c.entries[sourceKey] = e
}

// LastCycleCompletedAt returns the last cycle completion stamp for the
// source; zero if no cycle has completed.
func (c *Cache) LastCycleCompletedAt(sourceKey string) time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[sourceKey].lastCycleCompletedAt
}

// Reset clears all cached state for one source.
func (c *Cache) Reset(sourceKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sourceKey)
}

// ResetAll clears every source and notifies reset listeners. Used when the
// user changes team or league selection.
func (c *Cache) ResetAll() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	listeners := make([]ResetListener, len(c.onReset))
	copy(listeners, c.onReset)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
