package loader

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/krisalay/pos-admin-cache/bus"
	"github.com/krisalay/pos-admin-cache/types"
)

/*
Loader tracks, for one consumer, whether the modules it declared are
loaded into shared application state, and fetches the ones that are
not.

One Loader per consumer (screen, view, widget). All loaders share one
Flags table, so overlapping module sets never double-fetch.

STATE MACHINE:
--------------
Idle → Loading → Ready
            ↘  Error
Error/Ready → Loading   (forced reload)

Ready is DERIVED, not stored: a loader is ready the moment every
module it declared is flagged loaded, even if some other loader did
the loading.
*/
type Loader struct {
	id      string
	modules []types.ModuleName
	fetcher types.ModuleFetcher
	flags   *Flags
	metrics types.Metrics
	logger  zerolog.Logger

	opts Options

	mu      sync.Mutex
	loading bool
	lastErr error
	subs    []*bus.Subscription
	closed  bool

	// runCtx is the context reloads triggered by the bus run on.
	// Captured at Start; bus handlers have no context of their own.
	runCtx context.Context
}

// Options configures a Loader.
type Options struct {
	// AutoLoad makes Start immediately load the missing modules.
	AutoLoad bool

	// SubscribeToInvalidation registers the loader on Bus. When a
	// broadcast topic's affected modules intersect the declared set,
	// the loader reloads everything it declared, exactly like Reload.
	SubscribeToInvalidation bool
	Bus                     *bus.Bus

	Logger  zerolog.Logger
	Metrics types.Metrics
}

/*
New builds a loader for a declared module set.

The module slice is copied; the declared set is fixed for the
loader's lifetime. A consumer whose needs change builds a new loader.
*/
func New(modules []types.ModuleName, fetcher types.ModuleFetcher, flags *Flags, opts Options) *Loader {
	if opts.Metrics == nil {
		opts.Metrics = types.NoopMetrics{}
	}

	id := uuid.New().String()[:8]
	return &Loader{
		id:      id,
		modules: append([]types.ModuleName(nil), modules...),
		fetcher: fetcher,
		flags:   flags,
		metrics: opts.Metrics,
		logger: opts.Logger.With().
			Str("component", "module-loader").
			Str("loader_id", id).
			Logger(),
		opts: opts,
	}
}

// ID returns the loader's short instance ID, used for log correlation.
func (l *Loader) ID() string { return l.id }

// Modules returns the declared module set.
func (l *Loader) Modules() []types.ModuleName {
	return append([]types.ModuleName(nil), l.modules...)
}

/*
Start brings the loader into service.

It registers the invalidation subscription first (when configured) and
then runs the initial load if AutoLoad is set, returning that load's
error. The subscription is registered even when the initial load
fails: a consumer showing an error state still wants to converge after
somebody else fixes the data.
*/
func (l *Loader) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.runCtx = ctx
	if l.opts.SubscribeToInvalidation && l.opts.Bus != nil && len(l.subs) == 0 {
		l.subs = append(l.subs,
			l.opts.Bus.Subscribe(types.TopicMenuRefresh, l.onInvalidation),
			l.opts.Bus.Subscribe(types.TopicInventoryUpdated, l.onInvalidation),
		)
	}
	autoLoad := l.opts.AutoLoad
	l.mu.Unlock()

	if autoLoad {
		return l.Load(ctx)
	}
	return nil
}

/*
Load fetches the declared modules that are not yet flagged loaded.

- Nothing missing → no I/O, loader is Ready
- Otherwise one batched fetch for exactly the missing modules
- Success marks every fetched module loaded and clears the error
- Failure records the error; flags are untouched, so modules loaded
  by earlier batches stay loaded and the failed batch stays missing

A Load that arrives while another load is running returns immediately
without fetching; the running load's outcome stands for both.
*/
func (l *Loader) Load(ctx context.Context) error {
	missing := l.flags.Missing(l.modules)
	if len(missing) == 0 {
		return nil
	}
	return l.fetch(ctx, missing)
}

/*
Reload force-fetches ALL declared modules, loaded or not. This is the
manual retry affordance and the reaction to invalidation broadcasts.
*/
func (l *Loader) Reload(ctx context.Context) error {
	l.metrics.Reload()
	return l.fetch(ctx, l.modules)
}

// fetch runs one batched fetch. Only one runs at a time per loader.
func (l *Loader) fetch(ctx context.Context, modules []types.ModuleName) error {
	l.mu.Lock()
	if l.loading || l.closed {
		l.mu.Unlock()
		return nil
	}
	l.loading = true
	l.mu.Unlock()

	err := l.fetcher.FetchModules(ctx, modules)

	l.mu.Lock()
	l.loading = false
	l.lastErr = err
	l.mu.Unlock()

	if err != nil {
		l.logger.Warn().
			Err(err).
			Interface("modules", modules).
			Msg("module batch fetch failed")
		return err
	}

	l.flags.MarkLoaded(modules...)
	l.logger.Debug().
		Interface("modules", modules).
		Msg("module batch loaded")
	return nil
}

/*
onInvalidation is the bus handler. Bus delivery is synchronous on the
publisher's goroutine, so the actual re-fetch is handed off; an
invalidation must never block on network I/O.
*/
func (l *Loader) onInvalidation(topic string) {
	if !l.relevant(topic) {
		return
	}

	l.mu.Lock()
	ctx := l.runCtx
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	l.logger.Debug().
		Str("topic", topic).
		Msg("invalidation broadcast received, reloading")

	go func() {
		// The error lands in lastErr like any other load failure;
		// nobody is waiting on a broadcast-triggered reload.
		_ = l.Reload(ctx)
	}()
}

// relevant reports whether a topic's affected modules intersect the
// declared set.
func (l *Loader) relevant(topic string) bool {
	affected := types.ModulesForTopic(topic)
	for _, a := range affected {
		for _, m := range l.modules {
			if a == m {
				return true
			}
		}
	}
	return false
}

/*
IsReady is derived from the shared flags: true iff every declared
module is loaded. It can flip to true without this loader ever
fetching, when another loader's load covered the declared set.
*/
func (l *Loader) IsReady() bool {
	return l.flags.AllLoaded(l.modules)
}

// IsLoading reports whether a batched fetch is currently running.
func (l *Loader) IsLoading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Err returns the error of the most recent fetch, or nil. Cleared by
// the next successful fetch. Never panics into the consumer.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

/*
Close releases the loader's bus subscriptions. Idempotent, and safe
on every exit path; a consumer that leaves a subscription behind keeps
reloading data nobody looks at.
*/
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	for _, s := range l.subs {
		s.Cancel()
	}
	l.subs = nil
}
