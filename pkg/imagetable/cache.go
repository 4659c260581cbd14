package imagetable

import (
	"sync"

	"github.com/Faultbox/g1kit/pkg/g1"
)

// SessionCache keeps external image sources loaded during one build session
// so several entries referencing the same object or archive open it once.
// It is safe for concurrent use.
type SessionCache struct {
	mu      sync.Mutex
	entries map[string]*g1.Container
	hits    int
	misses  int
}

// NewSessionCache creates an empty cache.
func NewSessionCache() *SessionCache {
	return &SessionCache{entries: make(map[string]*g1.Container)}
}

// Get returns the cached container for key, calling load on a miss. Failed
// loads are not cached.
func (c *SessionCache) Get(key string, load func() (*g1.Container, error)) (*g1.Container, bool, error) {
	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return v, true, nil
	}
	c.misses++
	c.mu.Unlock()

	v, err := load()
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing, false, nil
	}
	c.entries[key] = v
	return v, false, nil
}

// Len returns the number of cached sources.
func (c *SessionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *SessionCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Clear drops every cached source and resets the counters.
func (c *SessionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*g1.Container)
	c.hits = 0
	c.misses = 0
}
