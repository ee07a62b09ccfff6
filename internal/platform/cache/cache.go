// Package cache provides the in-process read cache fronting catalog reads.
//
// The cache is an explicitly constructed component handed to request-handling
// paths by the caller; it is never package-level shared state. Dropping it is
// always safe: entries are rebuilt from the trip store on the next miss.
package cache

import (
	"sync"
	"time"

	"github.com/travlr-labs/travel-catalog-api/internal/ports/out/clock"
)

// DefaultTTL is the fixed entry lifetime. Entries older than this are treated
// as absent.
const DefaultTTL = 5 * time.Minute

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a mutex-guarded key-value store with per-entry expiration.
// The zero value is not usable; construct with New.
//
// Cache operations never fail: anything inconsistent degrades to a miss so
// reads stay available.
type Cache[V any] struct {
	ttl time.Duration
	clk clock.Clock

	mu      sync.Mutex
	entries map[string]entry[V]
}

// Stats is introspection output; it is not used for correctness.
type Stats struct {
	Size int
	Keys []string
}

// New constructs a cache with the given TTL. A non-positive ttl falls back to
// DefaultTTL.
func New[V any](ttl time.Duration, clk clock.Clock) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[V]{
		ttl:     ttl,
		clk:     clk,
		entries: make(map[string]entry[V]),
	}
}

// Set stores value under key with the current time, overwriting any prior
// entry. There is no size bound; TTL expiry and explicit invalidation are the
// only removal mechanisms.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, storedAt: c.clk.Now()}
}

// Get returns the value stored under key if it is younger than the TTL.
// An expired entry is removed and reported as a miss; a later Set is required
// to resurrect the key.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.clk.Now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Clear removes the entry for key; clearing an absent key is a no-op.
func (c *Cache[V]) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// ClearAll removes every entry.
func (c *Cache[V]) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Stats reports current size and keys. Expired-but-unswept entries may still
// be counted; Get is the only authority on liveness.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return Stats{Size: len(c.entries), Keys: keys}
}
