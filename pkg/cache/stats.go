package cache

import (
	"container/list"
	"sync"
)

type statsEntry struct {
	key   string
	value any
}

// StatsCache is a thread-safe LRU for derived statistics. Reconciliation
// invalidates keys instead of recomputing them, so a stale entry can never
// outlive the data it was derived from.
type StatsCache struct {
	capacity int
	mu       sync.Mutex
	items    map[string]*list.Element
	recency  *list.List
}

// NewStatsCache creates an LRU with the given capacity. Capacity must be
// positive.
func NewStatsCache(capacity int) *StatsCache {
	if capacity <= 0 {
		panic("cache: stats cache capacity must be positive")
	}
	return &StatsCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		recency:  list.New(),
	}
}

// Get returns the cached value for key and marks it recently used.
func (c *StatsCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.recency.MoveToFront(elem)
	return elem.Value.(*statsEntry).value, true
}

// Set stores a value under key, evicting the least recently used entry when
// over capacity.
func (c *StatsCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.recency.MoveToFront(elem)
		elem.Value.(*statsEntry).value = value
		return
	}

	elem := c.recency.PushFront(&statsEntry{key: key, value: value})
	c.items[key] = elem

	if c.recency.Len() > c.capacity {
		oldest := c.recency.Back()
		if oldest != nil {
			c.recency.Remove(oldest)
			delete(c.items, oldest.Value.(*statsEntry).key)
		}
	}
}

// Invalidate drops the entry for key, if present.
func (c *StatsCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.recency.Remove(elem)
		delete(c.items, key)
	}
}

// Len reports the number of cached entries.
func (c *StatsCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recency.Len()
}
