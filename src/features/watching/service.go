package watching

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"driftwatch/src/features/config"
	"driftwatch/src/features/diffing"
	"driftwatch/src/features/metrics"
	"driftwatch/src/tracking"
)

// Trigger asks for an extra scan between ticks when the filesystem reports
// activity. Purely an accelerant; detection itself stays with the scan.
type Trigger interface {
	Start(ctx context.Context, root string) error
	Stop()
}

// TriggerFactory builds a Trigger that signals on notify. May be nil, in
// which case the service relies on the ticker alone.
type TriggerFactory func(notify chan<- struct{}) (Trigger, error)

// ChangeHook is invoked after a change event has been appended, outside the
// session lock. content is the new file content, nil for deletions.
type ChangeHook func(event tracking.ChangeEvent, content []byte)

// Service owns the watch session: the idle/watching state, the snapshot
// store and the append-only change log.
type Service struct {
	cfg        *config.Manager
	engine     *diffing.Engine
	met        *metrics.Set
	newTrigger TriggerFactory
	hooks      []ChangeHook

	mu      sync.Mutex
	root    string // empty when idle
	lost    bool   // the watched root disappeared
	store   *snapshotStore
	changes []tracking.ChangeEvent

	// lifecycleMu serializes Start/Stop against each other; the session
	// mutex above stays free for the scan loop and snapshot queries.
	lifecycleMu sync.Mutex
	cancel      context.CancelFunc
	trigger     Trigger
	wg          sync.WaitGroup
}

// NewService creates the watching service. met and triggers may be nil.
func NewService(cfg *config.Manager, engine *diffing.Engine, met *metrics.Set, triggers TriggerFactory) *Service {
	return &Service{
		cfg:        cfg,
		engine:     engine,
		met:        met,
		newTrigger: triggers,
		store:      newSnapshotStore(),
	}
}

// OnChange registers a post-append hook. Must be called before Start.
func (s *Service) OnChange(hook ChangeHook) {
	s.hooks = append(s.hooks, hook)
}

// Start transitions the session to watching(root). Any previous session is
// stopped and its snapshots and change log are discarded; lock flags are
// path-scoped and survive untouched. The first scan only establishes the
// baseline and emits no events.
func (s *Service) Start(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving watch root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("accessing watch root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch root is not a directory: %s", abs)
	}

	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	s.stop()

	s.mu.Lock()
	s.root = abs
	s.lost = false
	s.store = newSnapshotStore()
	s.changes = nil
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.scan(ctx, true)

	notify := make(chan struct{}, 1)
	if s.newTrigger != nil {
		trigger, err := s.newTrigger(notify)
		if err != nil {
			slog.Warn("Filesystem trigger unavailable, polling only", "error", err)
		} else if err := trigger.Start(ctx, abs); err != nil {
			slog.Warn("Filesystem trigger failed to start, polling only", "error", err)
		} else {
			s.trigger = trigger
		}
	}

	s.wg.Add(1)
	go s.run(ctx, notify)

	slog.Info("Watching directory", "root", abs, "files", s.trackedCount())
	return nil
}

// Stop transitions the session back to idle, clearing the snapshot store
// and the change log.
func (s *Service) Stop() {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	s.stop()
}

func (s *Service) stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.trigger != nil {
		s.trigger.Stop()
		s.trigger = nil
	}
	s.wg.Wait()

	s.mu.Lock()
	wasWatching := s.root != ""
	s.root = ""
	s.lost = false
	s.store = newSnapshotStore()
	s.changes = nil
	s.mu.Unlock()

	if wasWatching {
		slog.Info("Stopped watching")
	}
	if s.met != nil {
		s.met.TrackedFiles.Set(0)
	}
}

// ClearChanges empties the change log but keeps the session running.
func (s *Service) ClearChanges() {
	s.mu.Lock()
	s.changes = nil
	s.mu.Unlock()
	slog.Info("Changes cleared")
}

// run drives the scan cadence. A single goroutine consumes both the ticker
// and the trigger channel, so scans never overlap; ticks that fire while a
// scan is still running are simply dropped by the ticker.
func (s *Service) run(ctx context.Context, notify <-chan struct{}) {
	defer s.wg.Done()

	interval := time.Duration(s.cfg.Get().Watch.IntervalMs) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scan(ctx, false)
		case <-notify:
			s.scan(ctx, false)
		}
	}
}

// scan runs one poll-diff-store cycle. Events within a cycle are appended
// in lexical path order; deletions come after creations and modifications.
func (s *Service) scan(ctx context.Context, baseline bool) {
	s.mu.Lock()
	root := s.root
	s.mu.Unlock()
	if root == "" {
		return
	}

	start := time.Now()
	cfg := s.cfg.Get().Watch
	scan := newScanner(cfg.IgnoreDirs)
	seen := make(map[string]bool)

	err := scan.walk(ctx, root, func(path string, info fs.FileInfo) {
		seen[path] = true
		s.observeFile(root, path, info, cfg.MaxFileSize, cfg.MaxChanges, baseline)
	})
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		s.markLost(root, err)
		return
	}

	s.reapDeleted(ctx, root, seen, cfg.MaxChanges, baseline)

	if s.met != nil {
		s.met.ScansTotal.Inc()
		s.met.ScanDuration.Observe(time.Since(start).Seconds())
		s.met.TrackedFiles.Set(float64(s.trackedCount()))
	}
}

// observeFile reads one file, updates its snapshot and appends a change
// event for created/modified transitions. Read errors skip the file for
// this cycle; the next scan retries it.
func (s *Service) observeFile(root, path string, info fs.FileInfo, maxFileSize int64, maxChanges int, baseline bool) {
	var content []byte
	if info.Size() <= maxFileSize {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("Skipping file, read failed", "path", path, "error", err)
			return
		}
		content = data
		if content == nil {
			content = []byte{}
		}
	}

	s.mu.Lock()
	if s.root != root {
		s.mu.Unlock()
		return
	}

	transition, prev := s.store.observe(path, content, info)
	if transition == tracking.TransitionUnchanged || baseline {
		s.mu.Unlock()
		return
	}

	event := s.buildEvent(root, path, transition, prev, content, info)
	s.append(event, maxChanges)
	s.mu.Unlock()

	if s.met != nil {
		s.met.ChangesTotal.WithLabelValues(string(transition)).Inc()
	}
	for _, hook := range s.hooks {
		hook(event, content)
	}
}

// reapDeleted forgets paths that disappeared from the listing and records
// one deletion event each, the whole prior content marked as removed.
func (s *Service) reapDeleted(ctx context.Context, root string, seen map[string]bool, maxChanges int, baseline bool) {
	s.mu.Lock()
	if s.root != root {
		s.mu.Unlock()
		return
	}

	var events []tracking.ChangeEvent
	for _, path := range s.store.paths() {
		if seen[path] || ctx.Err() != nil {
			continue
		}
		prev, ok := s.store.forget(path)
		if !ok || baseline {
			continue
		}

		res := s.engine.Compare(prev.Content, nil)
		var linesDelta *int
		if prev.Lines != nil {
			delta := -*prev.Lines
			linesDelta = &delta
		}
		event := tracking.ChangeEvent{
			ID:          uuid.NewString(),
			Time:        time.Now().Format("15:04:05"),
			File:        relPath(root, path),
			Ext:         filepath.Ext(path),
			SizeChange:  -prev.Size,
			LinesChange: linesDelta,
			Diff:        res.Text,
		}
		s.append(event, maxChanges)
		events = append(events, event)
	}
	s.mu.Unlock()

	for _, event := range events {
		if s.met != nil {
			s.met.ChangesTotal.WithLabelValues(string(tracking.TransitionDeleted)).Inc()
		}
		for _, hook := range s.hooks {
			hook(event, nil)
		}
	}
}

// buildEvent computes the diff for a created or modified file. Callers hold
// the session lock.
func (s *Service) buildEvent(root, path string, transition tracking.Transition, prev *tracking.TrackedFile, content []byte, info fs.FileInfo) tracking.ChangeEvent {
	var oldContent []byte
	var oldSize int64
	if transition == tracking.TransitionModified && prev != nil {
		oldContent = prev.Content
		oldSize = prev.Size
	}

	var res diffing.Result
	if content == nil || (prev != nil && prev.Content == nil && transition == tracking.TransitionModified) {
		// content unavailable on at least one side, only the size delta is meaningful
		res = diffing.Result{SizeDelta: info.Size() - oldSize}
	} else {
		res = s.engine.Compare(oldContent, content)
		res.SizeDelta = info.Size() - oldSize
	}

	return tracking.ChangeEvent{
		ID:          uuid.NewString(),
		Time:        time.Now().Format("15:04:05"),
		File:        relPath(root, path),
		Ext:         filepath.Ext(path),
		SizeChange:  res.SizeDelta,
		LinesChange: res.LinesDelta,
		Diff:        res.Text,
	}
}

// append adds an event to the log, enforcing the optional retention cap.
// Callers hold the session lock.
func (s *Service) append(event tracking.ChangeEvent, maxChanges int) {
	s.changes = append(s.changes, event)
	if maxChanges > 0 && len(s.changes) > maxChanges {
		s.changes = s.changes[len(s.changes)-maxChanges:]
	}
}

// markLost handles the watched root disappearing: the session drops to
// idle, snapshots are discarded, and the change log stays visible together
// with the watch-lost flag so the dashboard can tell the difference from a
// deliberate stop.
func (s *Service) markLost(root string, err error) {
	slog.Error("Watched root lost", "root", root, "error", err)
	s.mu.Lock()
	if s.root == root {
		s.root = ""
		s.lost = true
		s.store = newSnapshotStore()
	}
	s.mu.Unlock()
	if s.met != nil {
		s.met.TrackedFiles.Set(0)
	}
}

// AttachVectors decorates an already-appended event with embedding
// previews. A no-op when the event has been dropped or the session reset.
func (s *Service) AttachVectors(eventID string, head, tail []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.changes) - 1; i >= 0; i-- {
		if s.changes[i].ID == eventID {
			s.changes[i].VectorHead = head
			s.changes[i].VectorTail = tail
			return
		}
	}
}

// TrackedPaths returns the absolute paths tracked by the current session.
func (s *Service) TrackedPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.paths()
}

// Snapshot assembles a consistent view of the session. Lock flags are not
// filled in here; the dashboard feature merges them from the registry.
func (s *Service) Snapshot() tracking.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := tracking.Snapshot{
		WatchLost: s.lost,
		Files:     make(map[string]tracking.FileSummary, s.store.len()),
		Changes:   make([]tracking.ChangeEvent, len(s.changes)),
	}
	if s.root != "" {
		root := s.root
		snap.Watching = &root
	}
	for path, file := range s.store.files {
		snap.Files[path] = tracking.FileSummary{
			Size:    file.Size,
			Lines:   file.Lines,
			ModTime: file.ModTime.Unix(),
		}
	}
	copy(snap.Changes, s.changes)
	return snap
}

func (s *Service) trackedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.len()
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
