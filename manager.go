package poscache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/krisalay/pos-admin-cache/bus"
	"github.com/krisalay/pos-admin-cache/cell"
	"github.com/krisalay/pos-admin-cache/registry"
	"github.com/krisalay/pos-admin-cache/types"
)

/*
Manager is the orchestrator that connects:
- the cache registry (where values live)
- request coalescing (so a key is fetched at most once at a time)
- invalidation cascades (what a mutation wipes)
- the broadcast bus (how consumers hear about it)

It owns no storage itself and performs no I/O of its own; every fetch
goes through the Fetcher the caller hands in.
*/
type Manager struct {
	registry *registry.Registry
	bus      *bus.Bus
	metrics  types.Metrics
	logger   zerolog.Logger

	// singleflight keeps at most one fetch in flight per key. The
	// group entry exists exactly while the fetch runs: it is created
	// when the first caller starts the fetch and removed before Do
	// returns, success or failure, so a later call always gets a
	// clean retry.
	sf singleflight.Group
}

// NewManager wires a Manager. A nil metrics falls back to NoopMetrics;
// pass zerolog.Nop() to silence logging.
func NewManager(
	reg *registry.Registry,
	b *bus.Bus,
	metrics types.Metrics,
	logger zerolog.Logger,
) *Manager {
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	return &Manager{
		registry: reg,
		bus:      b,
		metrics:  metrics,
		logger:   logger.With().Str("component", "cache-manager").Logger(),
	}
}

// Registry exposes the underlying cells for diagnostics and for
// pre-seeding in tests.
func (m *Manager) Registry() *registry.Registry { return m.registry }

// Bus returns the broadcast bus consumers subscribe to.
func (m *Manager) Bus() *bus.Bus { return m.bus }

// GetOrFetch reads through the generic cell. See the Cache interface
// for the contract.
func (m *Manager) GetOrFetch(
	ctx context.Context,
	key string,
	fetcher types.Fetcher,
	ttl time.Duration,
	forceRefresh bool,
) (any, error) {
	if ttl <= 0 {
		ttl = m.registry.TTLFor(key)
	}
	return m.getOrFetch(ctx, m.registry.Generic, "generic:"+key, key, fetcher, ttl, forceRefresh)
}

// GetOrFetchAdmin reads through the admin-scoped cell.
func (m *Manager) GetOrFetchAdmin(
	ctx context.Context,
	key string,
	fetcher types.Fetcher,
	ttl time.Duration,
	forceRefresh bool,
) (any, error) {
	if ttl <= 0 {
		ttl = m.registry.Admin.DefaultTTL()
	}
	return m.getOrFetch(ctx, m.registry.Admin, "admin:"+key, key, fetcher, ttl, forceRefresh)
}

/*
getOrFetch is the shared read path.

The singleflight key is prefixed with the cell name because the same
logical key may exist in both the generic and the admin cell, and a
fetch for one must not be mistaken for a fetch of the other.

The flight runs on the context of whichever caller started it; callers
that coalesce onto it cannot cancel it. Nothing in this layer enforces
a timeout either. If the remote call should time out, the fetcher
wraps its own context.
*/
func (m *Manager) getOrFetch(
	ctx context.Context,
	c *cell.Cell,
	flightKey string,
	key string,
	fetcher types.Fetcher,
	ttl time.Duration,
	forceRefresh bool,
) (any, error) {

	// Fresh cache read wins, unless the caller insists on bypassing
	// it. The forced lookup also evicts the entry, so a crash between
	// here and the re-fetch can at worst cause an extra miss, never
	// serve the value the caller asked us to drop.
	if v, ok := c.Lookup(key, forceRefresh); ok {
		return v, nil
	}

	v, err, shared := m.sf.Do(flightKey, func() (any, error) {
		v, err := fetcher(ctx)
		if err != nil {
			// The error is surfaced to every coalesced caller and
			// nothing is stored: a failed fetch must not corrupt
			// cache state or block the next attempt.
			return nil, err
		}
		c.SetWithTTL(key, v, ttl)
		return v, nil
	})

	if shared {
		m.metrics.Coalesced()
	}
	if err != nil {
		m.logger.Warn().
			Err(err).
			Str("cell", c.Name()).
			Str("key", key).
			Msg("fetch failed")
		return nil, err
	}
	return v, nil
}

// interface guard
var _ Cache = (*Manager)(nil)
