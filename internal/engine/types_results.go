package engine

import (
	"github.com/broomkit/broom/internal/executor"
	"github.com/broomkit/broom/internal/journal"
	"github.com/broomkit/broom/internal/planner"
	"github.com/broomkit/broom/internal/scan"
)

// OrganizeResult represents the result of an organize run.
type OrganizeResult struct {
	// Inventory is what the scan collected
	Inventory *scan.Inventory

	// Plan is the compiled move plan
	Plan *planner.MovePlan

	// Report records what happened to every operation.
	// On dry runs it holds planned rows and nothing on disk has changed.
	Report *executor.Report

	// JournalPath is where the undo record was written.
	// Empty when nothing moved or on dry runs.
	JournalPath string
}

// UndoResult represents the result of reversing the last organize run.
type UndoResult struct {
	// Record is the undo record that was replayed
	Record *journal.Record

	// Report records what happened to every reversal move
	Report *executor.Report

	// PrunedDirs lists category directories removed because the reversal
	// left them empty
	PrunedDirs []string

	// Warnings lists non-fatal problems, such as directories that could
	// not be pruned
	Warnings []string
}

// RedoResult represents the result of re-applying the last undone run.
type RedoResult struct {
	// Record is the redo record that was replayed
	Record *journal.Record

	// Report records what happened to every re-applied move
	Report *executor.Report
}

// ScanResult represents the result of a read-only inventory scan.
type ScanResult struct {
	// Inventory is what the scan collected
	Inventory *scan.Inventory
}
