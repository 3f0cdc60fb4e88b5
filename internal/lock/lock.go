// Package lock serializes runs against a target root.
//
// The undo journal and the root's live contents are exclusively owned by one
// run at a time. An advisory lock file scoped to the root enforces this for
// the full scan-to-execute duration; distinct roots lock independently.
package lock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFilename is the advisory lock file, stored adjacent to the root.
// It is a dotfile so the scanner never inventories it.
const LockFilename = ".broom.lock"

// ErrBusy is returned when another run already holds the root's lock.
var ErrBusy = errors.New("target root is locked by another run")

// Lock is a held advisory lock on a target root.
type Lock interface {
	// Release gives up the lock. Safe to call once per acquired lock.
	Release() error
}

// Locker acquires exclusive per-root advisory locks.
type Locker interface {
	// Acquire takes the exclusive lock for root without blocking.
	// Returns ErrBusy if another run holds it.
	Acquire(root string) (Lock, error)
}

// FlockLocker implements Locker with OS advisory file locks.
type FlockLocker struct{}

// NewFlockLocker creates a FlockLocker.
func NewFlockLocker() *FlockLocker {
	return &FlockLocker{}
}

// Acquire takes the exclusive lock for root without blocking.
func (l *FlockLocker) Acquire(root string) (Lock, error) {
	fl := flock.New(filepath.Join(root, LockFilename))

	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock root %q: %w", root, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrBusy, root)
	}

	return &flockLock{fl: fl}, nil
}

type flockLock struct {
	fl *flock.Flock
}

// Release gives up the lock. The lock file itself is left in place;
// removing it would race with a concurrent acquirer.
func (l *flockLock) Release() error {
	return l.fl.Unlock()
}
