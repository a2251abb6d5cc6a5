package locks

import (
	"errors"
	"testing"
)

// fakeStore records write-throughs in memory.
type fakeStore struct {
	flags   map[string]bool
	loadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{flags: make(map[string]bool)}
}

func (f *fakeStore) Load() (map[string]bool, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make(map[string]bool, len(f.flags))
	for k, v := range f.flags {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) Set(path string, locked bool) error {
	if locked {
		f.flags[path] = true
	} else {
		delete(f.flags, path)
	}
	return nil
}

func TestGetDefaultsToFalse(t *testing.T) {
	r := NewRegistry(nil)
	if r.Get("/never/seen") {
		t.Error("unknown path reported locked")
	}
}

func TestToggleTwiceRestoresState(t *testing.T) {
	r := NewRegistry(nil)
	path := "/some/file.go"

	if !r.Toggle(path) {
		t.Fatal("first toggle should lock")
	}
	if !r.Get(path) {
		t.Fatal("path not locked after toggle")
	}
	if r.Toggle(path) {
		t.Fatal("second toggle should unlock")
	}
	if r.Get(path) {
		t.Fatal("path still locked after double toggle")
	}
}

func TestToggleWorksForUntrackedPaths(t *testing.T) {
	r := NewRegistry(nil)
	// any path may be locked before the watcher ever sees it
	if !r.Toggle("/not/yet/observed.txt") {
		t.Fatal("toggle on unknown path should lock it")
	}
	snap := r.Snapshot()
	if !snap["/not/yet/observed.txt"] {
		t.Error("snapshot missing the untracked locked path")
	}
}

func TestSetAllIsAbsolute(t *testing.T) {
	r := NewRegistry(nil)
	paths := []string{"/a", "/b", "/c"}
	r.Toggle("/b")

	r.SetAll(paths, true)
	for _, p := range paths {
		if !r.Get(p) {
			t.Errorf("%s not locked after SetAll(true)", p)
		}
	}

	r.SetAll(paths, false)
	for _, p := range paths {
		if r.Get(p) {
			t.Errorf("%s still locked after SetAll(false)", p)
		}
	}
}

func TestSetAllLeavesOtherPathsAlone(t *testing.T) {
	r := NewRegistry(nil)
	r.Toggle("/stale/session/file")

	r.SetAll([]string{"/current/file"}, false)
	if !r.Get("/stale/session/file") {
		t.Error("SetAll touched a path outside the given set")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	store := newFakeStore()

	r := NewRegistry(store)
	r.Toggle("/kept.txt")
	r.Toggle("/dropped.txt")
	r.Toggle("/dropped.txt")

	// a fresh registry over the same store sees only what stayed locked
	r2 := NewRegistry(store)
	if !r2.Get("/kept.txt") {
		t.Error("persisted lock not restored")
	}
	if r2.Get("/dropped.txt") {
		t.Error("unlocked path restored as locked")
	}
}

func TestLoadFailureLeavesRegistryUsable(t *testing.T) {
	store := newFakeStore()
	store.loadErr = errors.New("disk gone")

	r := NewRegistry(store)
	if !r.Toggle("/works/anyway") {
		t.Fatal("registry unusable after failed load")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r := NewRegistry(nil)
	r.Toggle("/a")

	snap := r.Snapshot()
	snap["/b"] = true
	if r.Get("/b") {
		t.Error("mutating a snapshot leaked into the registry")
	}
}
