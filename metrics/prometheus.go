package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/krisalay/pos-admin-cache/types"
)

/*
Prometheus-backed implementation of types.Metrics.

The cache itself only knows the Metrics interface; this package is
where the counters get real names. Wire it in production, leave
NoopMetrics in tests that don't assert on metrics.
*/
type Prometheus struct {
	hits          prometheus.Counter
	misses        prometheus.Counter
	expirations   prometheus.Counter
	coalesced     prometheus.Counter
	invalidations prometheus.Counter
	reloads       prometheus.Counter
}

// NewPrometheus registers the cache counters on reg. Pass nil to use
// the default registerer; tests pass their own prometheus.NewRegistry
// so instances stay isolated.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Prometheus{
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "poscache_hits_total",
			Help: "Cache reads answered from a fresh cell entry",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "poscache_misses_total",
			Help: "Cache reads that found no fresh entry",
		}),
		expirations: factory.NewCounter(prometheus.CounterOpts{
			Name: "poscache_expirations_total",
			Help: "Stale entries evicted lazily on read",
		}),
		coalesced: factory.NewCounter(prometheus.CounterOpts{
			Name: "poscache_coalesced_total",
			Help: "Callers that joined an already-running fetch",
		}),
		invalidations: factory.NewCounter(prometheus.CounterOpts{
			Name: "poscache_invalidations_total",
			Help: "Invalidation cascades applied",
		}),
		reloads: factory.NewCounter(prometheus.CounterOpts{
			Name: "poscache_module_reloads_total",
			Help: "Forced module reloads (manual retry or broadcast)",
		}),
	}
}

func (p *Prometheus) Hit()          { p.hits.Inc() }
func (p *Prometheus) Miss()         { p.misses.Inc() }
func (p *Prometheus) Expire()       { p.expirations.Inc() }
func (p *Prometheus) Coalesced()    { p.coalesced.Inc() }
func (p *Prometheus) Invalidation() { p.invalidations.Inc() }
func (p *Prometheus) Reload()       { p.reloads.Inc() }

// interface guard
var _ types.Metrics = (*Prometheus)(nil)
