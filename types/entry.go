package types

import "time"

/*
CacheEntry is one stored value inside a cache cell.

Entries are immutable once stored:
- A write always builds a NEW entry
- A write never mutates the entry it replaces

This matters because a reader may still be holding the old entry
while a writer swaps in a replacement.
*/
type CacheEntry struct {
	Key      string
	Value    any
	StoredAt time.Time

	// TTL is how long the entry stays fresh after StoredAt.
	// It is always >= 0. A zero TTL means the entry is stale
	// the moment it is stored.
	TTL time.Duration
}

// Fresh reports whether the entry is still valid at the given instant.
// An entry is fresh for exactly TTL after StoredAt, inclusive.
func (e *CacheEntry) Fresh(now time.Time) bool {
	return now.Sub(e.StoredAt) <= e.TTL
}
