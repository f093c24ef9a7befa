package geocache

import (
	"context"
	"sync"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

// Memory is a process-local cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]geo.CacheEntry
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]geo.CacheEntry)}
}

// Get returns the cached entry; ok is false on a miss.
func (c *Memory) Get(_ context.Context, zip string) (geo.CacheEntry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[zip]
	return e, ok, nil
}

// Put stores an entry.
func (c *Memory) Put(_ context.Context, zip string, e geo.CacheEntry) error {
	c.mu.Lock()
	c.entries[zip] = e
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
