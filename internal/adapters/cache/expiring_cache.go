package cache

import (
	"sync"
	"time"
)

type expiringEntry[V any] struct {
	value   V
	created time.Time
}

// ExpiringCache is an in-process key/value map whose entries are valid
// for a fixed TTL after insertion. Expired entries are dropped lazily on
// read. Safe for concurrent use.
type ExpiringCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]expiringEntry[V]
	ttl     time.Duration
	now     func() time.Time
}

// NewExpiringCache creates a cache with the given TTL. A nil clock uses
// time.Now, whose monotonic reading makes expiry immune to wall-clock jumps.
func NewExpiringCache[K comparable, V any](ttl time.Duration, now func() time.Time) *ExpiringCache[K, V] {
	if now == nil {
		now = time.Now
	}
	return &ExpiringCache[K, V]{
		entries: make(map[K]expiringEntry[V]),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the stored value while now - created < ttl
func (c *ExpiringCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if c.now().Sub(entry.created) < c.ttl {
		return entry.value, true
	}

	c.mu.Lock()
	// Another writer may have refreshed the entry in between.
	if current, ok := c.entries[key]; ok && current.created.Equal(entry.created) {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return zero, false
}

// Set replaces any previous entry for key and resets its creation time
func (c *ExpiringCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	c.entries[key] = expiringEntry[V]{value: value, created: c.now()}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included
func (c *ExpiringCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
