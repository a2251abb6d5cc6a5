// Package tracking holds the domain model shared by the watching,
// diffing and dashboard features: tracked files, change events and
// the snapshot served to the dashboard.
package tracking

import "time"

// Transition is the result of observing a file against its stored snapshot.
type Transition string

const (
	TransitionCreated   Transition = "created"
	TransitionModified  Transition = "modified"
	TransitionUnchanged Transition = "unchanged"
	TransitionDeleted   Transition = "deleted"
)

// TrackedFile is the last known state of a regular file under the watched
// root. At most one entry exists per absolute path.
type TrackedFile struct {
	Path      string // absolute
	Content   []byte
	Size      int64
	Lines     *int // nil when content is binary or not valid UTF-8
	ModTime   time.Time
	ScannedAt time.Time
}

// ChangeEvent is an immutable record of one detected creation, modification
// or deletion. Events are identified by insertion order in the change log;
// the ID only exists so asynchronous enrichment can find an event again.
type ChangeEvent struct {
	ID          string    `json:"id"`
	Time        string    `json:"time"` // HH:MM:SS wall clock
	File        string    `json:"file"` // relative to the watched root
	Ext         string    `json:"ext"`
	SizeChange  int64     `json:"size_change"`
	LinesChange *int      `json:"lines_change"` // null when unavailable
	Diff        string    `json:"diff"`         // empty for binary content
	VectorHead  []float64 `json:"vector_head,omitempty"`
	VectorTail  []float64 `json:"vector_tail,omitempty"`
}

// FileSummary is the per-file view exposed on the state endpoint. Content is
// deliberately omitted; the dashboard only renders counts.
type FileSummary struct {
	Size    int64 `json:"size"`
	Lines   *int  `json:"lines"`
	ModTime int64 `json:"mtime"` // unix seconds
	Locked  bool  `json:"locked"`
}

// Snapshot is a consistent point-in-time view of the watch session,
// assembled under the session lock.
type Snapshot struct {
	Watching  *string                `json:"watching"`
	WatchLost bool                   `json:"watch_lost"`
	Files     map[string]FileSummary `json:"files"`
	Changes   []ChangeEvent          `json:"changes"`
	FileLocks map[string]bool        `json:"file_locks"`
}
