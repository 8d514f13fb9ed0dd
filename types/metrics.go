package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache calls
these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when a cell returns a fresh value.
	Hit()

	// Miss is called when a key is absent and a fetch has to run.
	Miss()

	// Expire is called when a stale entry is evicted on read.
	Expire()

	// Coalesced is called when a caller joins an already-running
	// fetch for the same key instead of starting its own.
	Coalesced()

	// Invalidation is called once per invalidation cascade.
	Invalidation()

	// Reload is called when a module loader re-fetches its modules
	// because of an invalidation broadcast or a manual retry.
	Reload()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

Why do we need this?
--------------------
We don't want to force every user of the cache to implement metrics.

If someone does not care about metrics, we still want the cache to
work without:
- nil pointer checks everywhere
- if metrics != nil conditions

So we provide a default implementation that simply ignores all
metric events.
*/
type NoopMetrics struct{}

// All methods below intentionally do nothing.
// This satisfies the Metrics interface without side effects.

func (NoopMetrics) Hit()          {}
func (NoopMetrics) Miss()         {}
func (NoopMetrics) Expire()       {}
func (NoopMetrics) Coalesced()    {}
func (NoopMetrics) Invalidation() {}
func (NoopMetrics) Reload()       {}
