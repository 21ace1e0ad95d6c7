// pattern: Functional Core

package discovery

import "fmt"

// Kind classifies a directory found during a scan.
type Kind int

const (
	PlainDirectory Kind = iota // No git metadata recognized
	GitWorktree                // Normal repository with its own .git directory
	BareRepository             // Directory that is itself a git directory
	LinkedWorktree             // Worktree registered against a bare repository
)

// String returns the short tag used in reports.
func (k Kind) String() string {
	switch k {
	case PlainDirectory:
		return "dir"
	case GitWorktree:
		return "git"
	case BareRepository:
		return "bare"
	case LinkedWorktree:
		return "wt"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "dir":
		return PlainDirectory, nil
	case "git":
		return GitWorktree, nil
	case "bare":
		return BareRepository, nil
	case "wt":
		return LinkedWorktree, nil
	default:
		return PlainDirectory, fmt.Errorf("unknown directory kind %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so JSON and YAML output use the tag.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Entry is a single classified directory.
type Entry struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Path string `json:"path" yaml:"path"`
}

// GitState is the raw result of probing a directory.
type GitState struct {
	IsBare     bool
	IsWorkTree bool
}

// Classify maps a probe result to a Kind. Bare detection wins over work tree.
func Classify(state GitState) Kind {
	switch {
	case state.IsBare:
		return BareRepository
	case state.IsWorkTree:
		return GitWorktree
	default:
		return PlainDirectory
	}
}
