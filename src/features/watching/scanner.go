package watching

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// scanner enumerates the regular files under a root, skipping version
// control metadata, dependency caches and dot-files.
type scanner struct {
	ignoreDirs map[string]bool
}

func newScanner(ignoreDirs []string) *scanner {
	ignored := make(map[string]bool, len(ignoreDirs))
	for _, dir := range ignoreDirs {
		ignored[dir] = true
	}
	return &scanner{ignoreDirs: ignored}
}

func (s *scanner) skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || s.ignoreDirs[name]
}

// walk visits every regular file under root in lexical order. A failure to
// enumerate root itself is returned (the watch-lost condition); failures on
// individual entries are logged and skipped. The context is checked between
// entries so a stop request takes effect mid-scan.
func (s *scanner) walk(ctx context.Context, root string, visit func(path string, info fs.FileInfo)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return fs.SkipAll
		default:
		}

		if err != nil {
			if path == root {
				return err
			}
			slog.Warn("Skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && s.skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			slog.Warn("Skipping file, stat failed", "path", path, "error", err)
			return nil
		}

		visit(path, info)
		return nil
	})
}
