package engine

import (
	"github.com/broomkit/broom/internal/journal"
	"github.com/broomkit/broom/internal/planner"
	"github.com/broomkit/broom/internal/scan"
)

// OrganizeRequest represents a request to organize a target root.
type OrganizeRequest struct {
	// Root is the directory to organize
	Root string

	// Mode selects files or folders organization
	Mode scan.Mode

	// Recursive includes files in subdirectories (files mode only)
	Recursive bool

	// DryRun compiles and reports the plan without moving anything
	DryRun bool

	// Confirm decides whether the compiled plan may be applied. It runs
	// after the dry-run gate, with the root lock held. Nil auto-confirms.
	Confirm func(inv *scan.Inventory, plan *planner.MovePlan) bool
}

// UndoRequest represents a request to reverse the last organize run.
type UndoRequest struct {
	// Root is the directory whose last run should be reversed
	Root string

	// Confirm decides whether the loaded record may be replayed.
	// Nil auto-confirms.
	Confirm func(rec *journal.Record) bool
}

// RedoRequest represents a request to re-apply the last undone run.
type RedoRequest struct {
	// Root is the directory whose undone run should be re-applied
	Root string

	// Confirm decides whether the loaded record may be replayed.
	// Nil auto-confirms.
	Confirm func(rec *journal.Record) bool
}

// ScanRequest represents a request to inventory a target root.
type ScanRequest struct {
	// Root is the directory to scan
	Root string

	// Mode selects files or folders collection
	Mode scan.Mode

	// Recursive includes files in subdirectories (files mode only)
	Recursive bool
}
