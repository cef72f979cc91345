// Package cache is a process-local advisory cache: a best-effort freshness
// hint, never a correctness guarantee. Entries expire by TTL and nothing is
// ever served stale.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache maps string keys to values with a fixed time-to-live.
type Cache[V any] struct {
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time
	m   map[string]entry[V]
}

// New returns an empty cache whose entries stay fresh for ttl.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]entry[V]),
	}
}

// Get returns the cached value and whether it is still fresh. Expired
// entries are dropped on access.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	now := c.now()
	c.mu.RUnlock()

	if !ok {
		var zero V
		return zero, false
	}
	if now.Sub(e.storedAt) > c.ttl {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value under key, resetting its freshness window.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	c.m[key] = entry[V]{value: value, storedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate drops key immediately. Mutations call this so the next read
// sees the store, not the hint.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}
