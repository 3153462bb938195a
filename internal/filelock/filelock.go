// Package filelock guards an output file against concurrent tscombine runs
// writing into it at the same time.
package filelock

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// ErrOutputLocked is returned when another process holds the lock for an output path.
var ErrOutputLocked = errors.New("output is locked by another process")

// LockSuffix is appended to the output path to form the lock file path.
const LockSuffix = ".lock"

// OutputLock is an advisory lock held on <output>.lock while the output is written.
type OutputLock struct {
	flock *flock.Flock
	path  string
}

// LockPath returns the lock file path used for outputPath.
func LockPath(outputPath string) string {
	return outputPath + LockSuffix
}

// AcquireOutput takes the lock for outputPath without blocking.
// It returns ErrOutputLocked if the lock is already held.
func AcquireOutput(outputPath string) (*OutputLock, error) {
	path := LockPath(outputPath)
	fl := flock.New(path)

	acquired, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to try lock on %s: %w", path, err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, path)
	}

	return &OutputLock{flock: fl, path: path}, nil
}

// Path returns the lock file path.
func (l *OutputLock) Path() string {
	return l.path
}

// Release unlocks and removes the lock file. It is safe to call more than once.
func (l *OutputLock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}

	err := l.flock.Unlock()
	l.flock = nil
	if err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file %s: %w", l.path, err)
	}
	return nil
}
