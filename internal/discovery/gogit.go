// pattern: Imperative Shell

package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/util"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"gitscan/internal/logging"
)

// worktreesDir holds one administrative directory per linked worktree.
const worktreesDir = "worktrees"

// GoGit answers the same questions as GitCLI without spawning processes.
// It applies the same HEAD and .git pre-filters so both backends classify
// well-formed repositories identically.
type GoGit struct {
	logger *logging.ScopedLogger
}

// NewGoGit returns a go-git backed Backend.
func NewGoGit(logger *logging.ScopedLogger) *GoGit {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &GoGit{logger: logger}
}

// IsBareAt reports whether path opens as a git directory and is not named .git.
func (g *GoGit) IsBareAt(path string) bool {
	if !isRegularFile(filepath.Join(path, "HEAD")) {
		return false
	}
	if filepath.Base(path) == gitDirName {
		return false
	}
	if isDir(filepath.Join(path, gitDirName)) {
		return false
	}
	_, err := git.PlainOpen(path)
	return err == nil
}

// IsWorkTreeAt reports whether path opens as a repository with a work tree.
func (g *GoGit) IsWorkTreeAt(path string) bool {
	if !isDir(filepath.Join(path, gitDirName)) {
		return false
	}
	repo, err := git.PlainOpen(path)
	if err != nil {
		return false
	}
	_, err = repo.Worktree()
	return err == nil
}

// ListWorktrees reads worktrees/<name>/gitdir from the bare repository and
// returns the directory holding each recorded .git file.
func (g *GoGit) ListWorktrees(barePath string) ([]string, bool) {
	repo, err := git.PlainOpen(barePath)
	if err != nil {
		g.logger.Debug("open bare repository failed", "path", barePath, "error", err)
		return nil, false
	}
	storage, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return nil, false
	}
	fs := storage.Filesystem()

	infos, err := fs.ReadDir(worktreesDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, true
		}
		g.logger.Debug("read worktrees dir failed", "path", barePath, "error", err)
		return nil, false
	}

	var worktrees []string
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		data, err := util.ReadFile(fs, fs.Join(worktreesDir, info.Name(), "gitdir"))
		if err != nil {
			continue
		}
		target := strings.TrimSpace(string(data))
		if target == "" {
			continue
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(barePath, worktreesDir, info.Name(), target)
		}
		worktrees = append(worktrees, filepath.Dir(filepath.Clean(target)))
	}
	return worktrees, true
}
