// Package snapcache is the process-local, time-bounded snapshot cache. It is
// advisory only: a miss or expiry costs a refetch, never correctness.
package snapcache

import (
	"sync"
	"time"
)

// EntityKind partitions the key space per cached entity type.
type EntityKind string

const (
	KindProduct   EntityKind = "product"
	KindTranche   EntityKind = "tranche"
	KindPositions EntityKind = "positions"
	KindProducts  EntityKind = "products"
)

// Key identifies one cached entity on one chain.
type Key struct {
	ChainID uint64
	Kind    EntityKind
	ID      string
}

// DefaultTTL coalesces duplicate reads within one render pass while keeping
// on-chain changes visible promptly.
const DefaultTTL = 15 * time.Second

type entry struct {
	value      interface{}
	expiration time.Time
}

// Cache is a thread-safe TTL cache with refresh-generation tokens. The
// tokens implement last-writer-by-request-time-wins: a refresh that was
// started earlier but finishes later than a sibling refresh for the same key
// must not overwrite the sibling's result.
type Cache struct {
	mu    sync.RWMutex
	data  map[Key]entry
	gens  map[Key]uint64
	clock func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		data:  make(map[Key]entry),
		gens:  make(map[Key]uint64),
		clock: time.Now,
	}
}

// Get returns a cached value if present and not expired.
func (c *Cache) Get(key Key) (interface{}, bool) {
	c.mu.RLock()
	item, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.clock().After(item.expiration) {
		c.mu.Lock()
		// Re-check under the write lock; a Set may have raced the expiry.
		if current, still := c.data[key]; still && c.clock().After(current.expiration) {
			delete(c.data, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return item.value, true
}

// Set stores a value unconditionally with the given TTL.
func (c *Cache) Set(key Key, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.mu.Lock()
	c.data[key] = entry{value: value, expiration: c.clock().Add(ttl)}
	c.mu.Unlock()
}

// Begin issues a refresh generation token for the key. Tokens are monotonic
// per key in request order.
func (c *Cache) Begin(key Key) uint64 {
	c.mu.Lock()
	c.gens[key]++
	gen := c.gens[key]
	c.mu.Unlock()
	return gen
}

// Commit stores a refresh result unless a newer refresh has been issued for
// the key since gen was obtained. Returns whether the write was applied.
func (c *Cache) Commit(key Key, gen uint64, value interface{}, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen < c.gens[key] {
		return false
	}
	c.data[key] = entry{value: value, expiration: c.clock().Add(ttl)}
	return true
}

// Invalidate drops one key.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

// InvalidateAll drops every cached entry. Generation counters are kept so
// in-flight refreshes stay ordered.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.data = make(map[Key]entry)
	c.mu.Unlock()
}

// Len reports the number of live entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
