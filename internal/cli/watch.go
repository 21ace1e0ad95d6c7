// pattern: Imperative Shell
package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"gitscan/internal/instance"
	"gitscan/internal/logging"
)

const debounceInterval = 500 * time.Millisecond

// watch rescans whenever a directory under the roots is created, removed or
// renamed, until ctx is cancelled. Events are debounced so a burst triggers
// one rescan.
func watch(ctx context.Context, s *scanner, dataDir string, stdout io.Writer, logger *logging.ScopedLogger) error {
	fl, err := instance.Lock(dataDir)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer instance.Release(fl)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer func() { _ = w.Close() }()

	addWatches(w, s.roots, s.depth, logger)
	logger.Info("watching", "roots", s.roots, "depth", s.depth)

	var rescan <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			rescan = time.After(debounceInterval)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)

		case <-rescan:
			rescan = nil
			fmt.Fprintln(stdout)
			if err := s.scan(); err != nil {
				return err
			}
			addWatches(w, s.roots, s.depth, logger)
		}
	}
}

// addWatches registers every root and the directories within the scan depth.
// Adding an already watched path is a no-op for fsnotify.
func addWatches(w *fsnotify.Watcher, roots []string, maxDepth int, logger *logging.ScopedLogger) {
	for _, root := range roots {
		for _, dir := range watchDirs(root, maxDepth) {
			if err := w.Add(dir); err != nil {
				logger.Debug("cannot watch directory", "path", dir, "error", err)
			}
		}
	}
}

// watchDirs lists root and the directories at depth 1..maxDepth below it,
// without following symlinks. The insides of .git directories are skipped.
func watchDirs(root string, maxDepth int) []string {
	var dirs []string
	start := root
	if !strings.HasSuffix(start, string(filepath.Separator)) {
		start += string(filepath.Separator)
	}
	_ = filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		depth := 0
		if rel != "." {
			depth = strings.Count(rel, string(filepath.Separator)) + 1
		}
		if depth > maxDepth || (depth > 0 && d.Name() == ".git") {
			return fs.SkipDir
		}
		dirs = append(dirs, filepath.Clean(path))
		return nil
	})
	return dirs
}
