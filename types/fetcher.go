package types

import "context"

/*
Fetcher is the contract between the cache and the remote data API
for a single key.

Fetch is called when the cache misses:
1. Cache checks memory → key not found or stale
2. Cache calls Fetch
3. Fetcher talks to the remote API
4. Cache stores the result in memory
5. Cache returns the value

The cache does not retry and does not inspect the error. Whatever the
remote call returns is handed back to every caller waiting on it.
*/
type Fetcher func(ctx context.Context) (any, error)

/*
ModuleFetcher is the contract between a module loader and the remote
data API.

FetchModules receives the batch of modules the loader decided to load
and is expected to pull ALL of them into shared application state in
one round trip. It either succeeds for the whole batch or fails for
the whole batch; the loader never marks a partial batch as loaded.
*/
type ModuleFetcher interface {
	FetchModules(ctx context.Context, modules []ModuleName) error
}

// ModuleFetcherFunc adapts a plain function to the ModuleFetcher interface.
type ModuleFetcherFunc func(ctx context.Context, modules []ModuleName) error

func (f ModuleFetcherFunc) FetchModules(ctx context.Context, modules []ModuleName) error {
	return f(ctx, modules)
}
