package poscache

import (
	"context"
	"time"

	"github.com/krisalay/pos-admin-cache/types"
)

/*
Cache defines the PUBLIC API of the admin data cache.
This is a contract that guarantees certain behaviors, without exposing internals.
All of the details (cells, coalescing, invalidation cascades, broadcast)
are hidden behind this interface.
*/
type Cache interface {

	/*
		GetOrFetch returns the value for a key, fetching it at most once.

		BEHAVIOR:
		---------
		1. If the key is cached and fresh (and forceRefresh is false):
		   - Return the cached value immediately, no I/O

		2. If a fetch for this key is already in flight:
		   - Do NOT start another one
		   - Wait on the existing fetch and share its result (or its error)

		3. Otherwise:
		   - Run fetcher
		   - On success, cache the result under ttl and return it
		   - On failure, cache nothing and return the error verbatim

		A ttl of 0 means "use the configured TTL for this key".

		ERROR HANDLING:
		---------------
		- Errors are never cached; the next call retries
		- There is no retry or backoff here. Retry policy belongs to
		  the caller, typically a manual refresh action in the UI.
	*/
	GetOrFetch(ctx context.Context, key string, fetcher types.Fetcher, ttl time.Duration, forceRefresh bool) (any, error)

	/*
		GetOrFetchAdmin is GetOrFetch against the admin-scoped cell.

		Admin screens keep their own copies of some categories with
		their own TTL, so a busy floor view refreshing every few
		seconds does not keep admin data artificially hot.
	*/
	GetOrFetchAdmin(ctx context.Context, key string, fetcher types.Fetcher, ttl time.Duration, forceRefresh bool) (any, error)

	/*
		Invalidate runs the cascade for one mutation category.

		BEHAVIOR:
		---------
		- Clears the predetermined set of keys and cells for the category
		- Broadcasts the category's topics so live consumers re-fetch
		- Is idempotent: running it twice leaves the same state as once

		It performs no I/O and cannot fail. Unknown categories do nothing.
	*/
	Invalidate(category Category)
}
