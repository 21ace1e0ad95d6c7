// pattern: Imperative Shell

package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gitscan/internal/logging"
)

const (
	// maxNestingLevel is the deepest level at which a plain directory is still expanded.
	maxNestingLevel = 1
	// nestedDepth is the enumeration depth used when expanding a plain directory.
	nestedDepth = 1
)

// Walker classifies the directories under a root.
type Walker struct {
	backend Backend
	logger  *logging.ScopedLogger
}

// NewWalker creates a Walker that asks backend about every directory it visits.
func NewWalker(backend Backend, logger *logging.ScopedLogger) *Walker {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Walker{backend: backend, logger: logger}
}

// Walk classifies every directory at depth 1..maxDepth under root, in
// traversal order. Plain directories are expanded looking for repositories
// nested below them; bare repositories are followed by their linked worktrees.
// An unreadable or missing root yields no entries.
func (w *Walker) Walk(root string, maxDepth int) []Entry {
	return w.walk(root, maxDepth, 0)
}

func (w *Walker) walk(root string, maxDepth int, level int) []Entry {
	var entries []Entry
	if maxDepth < 1 {
		return entries
	}

	_ = filepath.WalkDir(walkRoot(root), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped; the rest of the tree is still walked.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		depth := relativeDepth(root, path)
		if depth == 0 {
			return nil
		}
		if depth > maxDepth {
			return filepath.SkipDir
		}

		kind := Classify(ProbeGitState(w.backend, path))
		w.logger.Debug("classified directory", "path", path, "kind", kind.String(), "level", level)
		entries = append(entries, Entry{Kind: kind, Path: path})
		entries = append(entries, w.expand(kind, path, level)...)

		if depth == maxDepth {
			return filepath.SkipDir
		}
		return nil
	})

	return entries
}

// expand returns the entries discovered beyond path because of its kind.
func (w *Walker) expand(kind Kind, path string, level int) []Entry {
	switch kind {
	case BareRepository:
		return w.linkedWorktrees(path)
	case GitWorktree:
		return nil
	case PlainDirectory:
		if level > maxNestingLevel {
			return nil
		}
		return withoutPlain(w.walk(path, nestedDepth, level+1))
	case LinkedWorktree:
		return nil
	default:
		return nil
	}
}

func (w *Walker) linkedWorktrees(barePath string) []Entry {
	paths, ok := w.backend.ListWorktrees(barePath)
	if !ok {
		return nil
	}
	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, Entry{Kind: LinkedWorktree, Path: p})
	}
	return entries
}

func withoutPlain(entries []Entry) []Entry {
	kept := entries[:0]
	for _, e := range entries {
		if e.Kind != PlainDirectory {
			kept = append(kept, e)
		}
	}
	return kept
}

// walkRoot makes filepath.WalkDir descend into a root that is itself a
// symlink to a directory. Links below the root are never followed.
func walkRoot(root string) string {
	info, err := os.Lstat(root)
	if err == nil && info.Mode()&os.ModeSymlink != 0 {
		return strings.TrimRight(root, string(filepath.Separator)) + string(filepath.Separator)
	}
	return root
}

func relativeDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
