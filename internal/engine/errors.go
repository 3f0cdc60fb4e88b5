package engine

import "errors"

var (
	// ErrRootNotDirectory indicates the target root does not exist or is
	// not a directory.
	ErrRootNotDirectory = errors.New("target root is not a directory")

	// ErrRootBusy indicates another run holds the target root's lock.
	ErrRootBusy = errors.New("target root is busy")

	// ErrNoEntries indicates the scan found nothing to organize.
	ErrNoEntries = errors.New("nothing to organize")

	// ErrConfirmationDeclined indicates the confirmation hook rejected the
	// compiled plan before anything was moved.
	ErrConfirmationDeclined = errors.New("confirmation declined")

	// ErrNoJournal indicates no undo record exists for the target root.
	ErrNoJournal = errors.New("no undo record found")

	// ErrNoRedo indicates no redo record exists for the target root.
	ErrNoRedo = errors.New("no redo record found")
)
