// pattern: Imperative Shell
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = "gitscan.watch.lock"

// ErrAlreadyWatching is returned when another watcher holds the lock.
var ErrAlreadyWatching = errors.New("another gitscan watcher is already running")

// Lock acquires the exclusive watch lock in dataDir, creating the directory
// if needed. The caller must Release the returned handle.
func Lock(dataDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	fl := flock.New(LockPath(dataDir))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyWatching
	}
	return fl, nil
}

// LockPath returns the lock file location for dataDir.
func LockPath(dataDir string) string {
	return filepath.Join(dataDir, lockFileName)
}

// Release unlocks the watch lock. A nil handle is ignored.
func Release(fl *flock.Flock) {
	if fl != nil {
		_ = fl.Unlock()
	}
}
