package cache

import "sync"

const defaultIconCapacity = 50

// IconCache maps team ids to downloaded logo file paths. It evicts the
// oldest-inserted entry past capacity; plain FIFO is enough because access
// is near-uniform across a small, mostly-static team set.
type IconCache struct {
	mu    sync.Mutex
	paths map[string]string
	order []string
	cap   int
}

// NewIconCache constructs an IconCache with the given capacity (<=0 uses the
// default of 50).
func NewIconCache(capacity int) *IconCache {
	if capacity <= 0 {
		capacity = defaultIconCapacity
	}
	return &IconCache{
		paths: make(map[string]string),
		cap:   capacity,
	}
}

// Get returns the cached icon path for a team.
func (c *IconCache) Get(teamID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	path, ok := c.paths[teamID]
	return path, ok
}

// Set stores an icon path, evicting the oldest insertion when full.
func (c *IconCache) Set(teamID, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.paths[teamID]; !exists {
		c.order = append(c.order, teamID)
	}
	c.paths[teamID] = path

	for len(c.order) > c.cap {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.paths, oldest)
	}
}

// Len returns the number of cached entries.
func (c *IconCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}

// Clear drops all entries.
func (c *IconCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = make(map[string]string)
	c.order = nil
}
