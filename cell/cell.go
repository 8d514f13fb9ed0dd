package cell

import (
	"sync"
	"time"

	"github.com/krisalay/pos-admin-cache/types"
)

/*
This file defines a cache "cell": one named, independent slice of the
cache with its own default TTL.

Instead of having one big cache with one big policy, the system keeps
a handful of cells, one per category of data (orders, tables, menu,
inventory, generic API responses). Each cell:
- Holds the keys for its category
- Has its own freshness window
- Can be wiped in one call when its category changes

Eviction is lazy. A stale entry is removed the next time somebody
reads it, never by a background timer. With TTLs between a few seconds
and half an hour and entry counts in the dozens, a sweeper goroutine
would buy nothing and cost a lifecycle to manage.
*/
type Cell struct {
	name       string
	defaultTTL time.Duration
	metrics    types.Metrics

	mu      sync.RWMutex
	entries map[string]*types.CacheEntry
}

/*
New creates a cell.

defaultTTL applies to entries stored with Set. Individual entries can
override it via SetWithTTL. A nil metrics falls back to NoopMetrics so
the cell never has to nil-check on the hot path.
*/
func New(name string, defaultTTL time.Duration, metrics types.Metrics) *Cell {
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if defaultTTL < 0 {
		defaultTTL = 0
	}
	return &Cell{
		name:       name,
		defaultTTL: defaultTTL,
		metrics:    metrics,
		entries:    make(map[string]*types.CacheEntry),
	}
}

// Name returns the cell's name, used in logs and diagnostics.
func (c *Cell) Name() string { return c.name }

// DefaultTTL returns the TTL applied by Set.
func (c *Cell) DefaultTTL() time.Duration { return c.defaultTTL }

// Set stores a value under the cell's default TTL, unconditionally
// replacing any existing entry.
func (c *Cell) Set(key string, value any) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

/*
SetWithTTL stores a value with an explicit TTL.

The entry replaces, never mutates, whatever was stored before. A
negative ttl is clamped to zero, which stores an entry that is already
stale; storing can never fail.
*/
func (c *Cell) SetWithTTL(key string, value any, ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}
	ent := &types.CacheEntry{
		Key:      key,
		Value:    value,
		StoredAt: time.Now(),
		TTL:      ttl,
	}

	c.mu.Lock()
	c.entries[key] = ent
	c.mu.Unlock()
}

// Get retrieves a fresh value. Equivalent to Lookup(key, false).
func (c *Cell) Get(key string) (any, bool) {
	return c.Lookup(key, false)
}

/*
Lookup retrieves a value, optionally forcing a miss.

BEHAVIOR:
---------
1. No entry for key           → miss
2. forceRefresh set           → entry evicted, miss
3. Entry stale (age > TTL)    → entry evicted, miss
4. Otherwise                  → hit, value returned

The eviction in cases 2 and 3 is the only way entries leave the cell
besides Delete/Clear. Callers that miss are expected to re-fetch and
Set, so the evicted slot is about to be repopulated anyway.
*/
func (c *Cell) Lookup(key string, forceRefresh bool) (any, bool) {
	c.mu.RLock()
	ent, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.metrics.Miss()
		return nil, false
	}

	if forceRefresh {
		c.evict(key, ent)
		c.metrics.Miss()
		return nil, false
	}

	if !ent.Fresh(time.Now()) {
		c.evict(key, ent)
		c.metrics.Expire()
		c.metrics.Miss()
		return nil, false
	}

	c.metrics.Hit()
	return ent.Value, true
}

/*
evict removes an entry, but only if the map still holds the exact
entry the reader saw. Another goroutine may have replaced it between
our read lock and this write lock; a newer entry must survive.
*/
func (c *Cell) evict(key string, seen *types.CacheEntry) {
	c.mu.Lock()
	if cur, ok := c.entries[key]; ok && cur == seen {
		delete(c.entries, key)
	}
	c.mu.Unlock()
}

// Has reports whether a fresh value exists for key. Like Get, it
// lazily evicts a stale entry it finds.
func (c *Cell) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes a single key. Deleting an absent key is a no-op.
func (c *Cell) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes every entry in the cell. Clearing an empty cell is a
// no-op, which keeps invalidation cascades idempotent.
func (c *Cell) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*types.CacheEntry)
	c.mu.Unlock()
}

// Size returns the number of stored entries, stale ones included.
// Diagnostics only.
func (c *Cell) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the stored keys in no particular order. Diagnostics only.
func (c *Cell) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}
