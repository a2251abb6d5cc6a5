package watching

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"driftwatch/src/tracking"
)

func statFile(t *testing.T, path string) fs.FileInfo {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	return info
}

func TestObserveTransitions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, "one\n")

	store := newSnapshotStore()

	transition, prev := store.observe(path, []byte("one\n"), statFile(t, path))
	if transition != tracking.TransitionCreated || prev != nil {
		t.Fatalf("first observe = %s, prev %v", transition, prev)
	}

	transition, _ = store.observe(path, []byte("one\n"), statFile(t, path))
	if transition != tracking.TransitionUnchanged {
		t.Fatalf("identical content observe = %s", transition)
	}

	writeFile(t, path, "two\n")
	transition, prev = store.observe(path, []byte("two\n"), statFile(t, path))
	if transition != tracking.TransitionModified {
		t.Fatalf("changed content observe = %s", transition)
	}
	if prev == nil || string(prev.Content) != "one\n" {
		t.Fatalf("previous entry not returned: %v", prev)
	}
}

func TestForget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, "data\n")

	store := newSnapshotStore()
	store.observe(path, []byte("data\n"), statFile(t, path))

	prev, ok := store.forget(path)
	if !ok || prev == nil {
		t.Fatal("forget did not return the tracked entry")
	}
	if prev.Size != 5 {
		t.Errorf("size = %d, want 5", prev.Size)
	}

	if _, ok := store.forget(path); ok {
		t.Error("forget of unknown path reported an entry")
	}
}

func TestWalkStopsPromptlyOnCancel(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		writeFile(t, filepath.Join(dir, name), "x\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	visited := 0
	s := newScanner(nil)
	err := s.walk(ctx, dir, func(string, fs.FileInfo) {
		visited++
		cancel()
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if visited != 1 {
		t.Fatalf("visited %d files after cancel, want 1", visited)
	}
}
