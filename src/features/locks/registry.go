// Package locks keeps the per-path lock flags shown on the dashboard.
// A lock is purely a display/workflow signal; it never touches file
// permissions. Entries are keyed by absolute path and deliberately outlive
// watch sessions, so starting a new watch does not lose lock intent.
package locks

import (
	"log/slog"
	"maps"
	"sync"
)

// Store persists lock flags across restarts. Implementations live in infra.
type Store interface {
	Load() (map[string]bool, error)
	Set(path string, locked bool) error
}

// Registry is the in-memory source of truth for lock flags. Absence of a
// path is equivalent to unlocked.
type Registry struct {
	mu    sync.RWMutex
	flags map[string]bool
	store Store // optional, write-through
}

// NewRegistry creates a Registry, loading any persisted flags from store.
// A nil store keeps the registry memory-only.
func NewRegistry(store Store) *Registry {
	r := &Registry{
		flags: make(map[string]bool),
		store: store,
	}
	if store != nil {
		persisted, err := store.Load()
		if err != nil {
			slog.Error("Failed to load persisted locks", "error", err)
			return r
		}
		maps.Copy(r.flags, persisted)
		if len(persisted) > 0 {
			slog.Info("Restored lock flags", "count", len(persisted))
		}
	}
	return r
}

// Get returns the lock flag for path, defaulting to false.
func (r *Registry) Get(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.flags[path]
}

// Toggle flips the flag for path and returns the new state. The path does
// not have to be tracked by the watcher.
func (r *Registry) Toggle(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := !r.flags[path]
	r.set(path, next)
	return next
}

// SetAll applies the same flag to every given path. Callers pass the
// currently tracked file set; paths from older sessions are left alone.
func (r *Registry) SetAll(paths []string, locked bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, path := range paths {
		r.set(path, locked)
	}
}

// Snapshot returns a copy of all known flags.
func (r *Registry) Snapshot() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.flags)
}

// set mutates one flag and writes it through. Callers hold the lock.
func (r *Registry) set(path string, locked bool) {
	if locked {
		r.flags[path] = true
	} else {
		delete(r.flags, path)
	}
	if r.store != nil {
		if err := r.store.Set(path, locked); err != nil {
			slog.Error("Failed to persist lock flag", "path", path, "error", err)
		}
	}
}
