package loader

import (
	"sync"

	"github.com/krisalay/pos-admin-cache/types"
)

/*
Flags is the process-wide "which modules are loaded" table.

It is SHARED on purpose. Two screens that both need the orders module
must not fetch it twice: whichever loads first marks the flag, and the
second screen becomes ready without any I/O of its own.

One Flags table is built at startup and handed to every loader.
Loading status and errors stay per-loader; only load COMPLETION is
shared state.
*/
type Flags struct {
	mu     sync.RWMutex
	loaded map[types.ModuleName]bool
}

func NewFlags() *Flags {
	return &Flags{loaded: make(map[types.ModuleName]bool)}
}

// IsLoaded reports whether one module has been loaded.
func (f *Flags) IsLoaded(m types.ModuleName) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loaded[m]
}

// AllLoaded reports whether every given module has been loaded.
func (f *Flags) AllLoaded(modules []types.ModuleName) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, m := range modules {
		if !f.loaded[m] {
			return false
		}
	}
	return true
}

// Missing returns the subset of modules not yet loaded, preserving
// order.
func (f *Flags) Missing(modules []types.ModuleName) []types.ModuleName {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var missing []types.ModuleName
	for _, m := range modules {
		if !f.loaded[m] {
			missing = append(missing, m)
		}
	}
	return missing
}

// MarkLoaded records that a batch of modules finished loading. Only
// called after the whole batch succeeded; a failed batch marks
// nothing.
func (f *Flags) MarkLoaded(modules ...types.ModuleName) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, m := range modules {
		f.loaded[m] = true
	}
}

// Reset clears the flags. Used by tests and full restarts, not by
// invalidation: invalidation leaves flags alone and forces loaders to
// re-fetch instead, so consumers keep rendering the old data until
// the new data arrives.
func (f *Flags) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = make(map[types.ModuleName]bool)
}
