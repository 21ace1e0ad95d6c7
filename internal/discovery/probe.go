// pattern: Imperative Shell

package discovery

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gitscan/internal/logging"
)

// gitDirName is the metadata directory of a normal repository.
const gitDirName = ".git"

// Prober answers the two questions needed to classify a directory.
// Implementations never fail: anything they cannot determine is reported as false.
type Prober interface {
	IsBareAt(path string) bool
	IsWorkTreeAt(path string) bool
}

// WorktreeLister enumerates the worktrees registered against a bare repository.
// The bool is false when the listing could not be obtained at all.
type WorktreeLister interface {
	ListWorktrees(barePath string) ([]string, bool)
}

// Backend is everything the Walker needs from git.
type Backend interface {
	Prober
	WorktreeLister
}

// ProbeGitState runs both checks of p against path.
func ProbeGitState(p Prober, path string) GitState {
	return GitState{
		IsBare:     p.IsBareAt(path),
		IsWorkTree: p.IsWorkTreeAt(path),
	}
}

type commandFunc func(name string, args ...string) *exec.Cmd

// execCommand is swapped in tests.
var execCommand commandFunc = exec.Command

// GitCLI probes directories by running the git executable.
type GitCLI struct {
	binary string
	logger *logging.ScopedLogger
}

// NewGitCLI returns a backend that runs binary (default "git").
func NewGitCLI(binary string, logger *logging.ScopedLogger) *GitCLI {
	if strings.TrimSpace(binary) == "" {
		binary = "git"
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &GitCLI{binary: binary, logger: logger}
}

// Binary returns the executable this backend runs.
func (g *GitCLI) Binary() string {
	return g.binary
}

// IsBareAt reports whether path is a git directory that is not a repository's own .git.
// Only directories with a HEAD file are asked about.
func (g *GitCLI) IsBareAt(path string) bool {
	if !isRegularFile(filepath.Join(path, "HEAD")) {
		return false
	}
	if !g.revParseTrue(path, "--is-inside-git-dir") {
		return false
	}
	return filepath.Base(path) != gitDirName
}

// IsWorkTreeAt reports whether path is inside a work tree.
// Only directories with a .git subdirectory are asked about.
func (g *GitCLI) IsWorkTreeAt(path string) bool {
	if !isDir(filepath.Join(path, gitDirName)) {
		return false
	}
	return g.revParseTrue(path, "--is-inside-work-tree")
}

// ListWorktrees runs `git worktree list` in barePath.
func (g *GitCLI) ListWorktrees(barePath string) ([]string, bool) {
	cmd := execCommand(g.binary, "-C", barePath, "worktree", "list")
	output, err := cmd.Output()
	if err != nil {
		g.logger.Debug("worktree list failed", "path", barePath, "error", err)
		return nil, false
	}
	return ParseWorktreeList(strings.ToValidUTF8(string(output), string(utf8.RuneError))), true
}

// revParseTrue runs `git -C dir rev-parse <flag>` and reports whether it printed "true".
// The exit status is not consulted; only standard output matters.
func (g *GitCLI) revParseTrue(dir string, flag string) bool {
	cmd := execCommand(g.binary, "-C", dir, "rev-parse", flag)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			g.logger.Debug("git probe failed", "path", dir, "flag", flag, "error", err)
			return false
		}
	}
	if !utf8.Valid(output) {
		return false
	}
	return strings.TrimSpace(string(output)) == "true"
}

// ParseWorktreeList extracts worktree paths from `git worktree list` output.
// The line describing the bare repository itself is skipped, and so is any
// line without a space to split the path off at.
func ParseWorktreeList(output string) []string {
	var worktrees []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.Contains(line, "(bare)") {
			continue
		}
		path, _, found := strings.Cut(line, " ")
		if !found {
			continue
		}
		worktrees = append(worktrees, path)
	}
	return worktrees
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
