package watching

import (
	"bytes"
	"io/fs"
	"sort"
	"time"

	"driftwatch/src/features/diffing"
	"driftwatch/src/tracking"
)

// snapshotStore holds the last known content and metadata per tracked path.
// Not safe for concurrent use; callers hold the session mutex.
type snapshotStore struct {
	files map[string]*tracking.TrackedFile
}

func newSnapshotStore() *snapshotStore {
	return &snapshotStore{files: make(map[string]*tracking.TrackedFile)}
}

// observe records the freshly read state of path and reports how it changed
// relative to the stored entry. content is nil for files whose content was
// not read (oversized); those are compared by size and mtime instead of
// byte-for-byte.
func (s *snapshotStore) observe(path string, content []byte, info fs.FileInfo) (tracking.Transition, *tracking.TrackedFile) {
	prev, exists := s.files[path]

	transition := tracking.TransitionCreated
	if exists {
		if unchanged(prev, content, info) {
			prev.ScannedAt = time.Now()
			return tracking.TransitionUnchanged, prev
		}
		transition = tracking.TransitionModified
	}

	var lines *int
	if content != nil {
		lines = diffing.Lines(content)
	}
	s.files[path] = &tracking.TrackedFile{
		Path:      path,
		Content:   content,
		Size:      info.Size(),
		Lines:     lines,
		ModTime:   info.ModTime(),
		ScannedAt: time.Now(),
	}
	return transition, prev
}

func unchanged(prev *tracking.TrackedFile, content []byte, info fs.FileInfo) bool {
	if prev.Content == nil || content == nil {
		return prev.Size == info.Size() && prev.ModTime.Equal(info.ModTime())
	}
	return bytes.Equal(prev.Content, content)
}

// forget drops the entry for a path that no longer exists on disk and
// returns it so the caller can record the deletion.
func (s *snapshotStore) forget(path string) (*tracking.TrackedFile, bool) {
	prev, ok := s.files[path]
	if ok {
		delete(s.files, path)
	}
	return prev, ok
}

// paths returns all tracked paths in lexical order, so deletion events
// within a cycle come out deterministically.
func (s *snapshotStore) paths() []string {
	out := make([]string, 0, len(s.files))
	for path := range s.files {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

func (s *snapshotStore) len() int {
	return len(s.files)
}
