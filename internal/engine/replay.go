package engine

import (
	"fmt"
	"time"

	"github.com/broomkit/broom/internal/fsops"
	"github.com/broomkit/broom/internal/journal"
	"github.com/broomkit/broom/internal/planner"
	"github.com/broomkit/broom/internal/scan"
)

// validateRecord rejects records whose paths escape the target root. The
// journal sits on disk between runs, so it gets the same path checks as an
// oracle response before any of it is replayed.
func validateRecord(rec *journal.Record) error {
	for _, entry := range rec.Entries {
		if err := fsops.ValidateRelPath(entry.OriginalPath); err != nil {
			return fmt.Errorf("invalid journal entry: %w", err)
		}
		if err := fsops.ValidateRelPath(entry.NewPath); err != nil {
			return fmt.Errorf("invalid journal entry: %w", err)
		}
	}
	return nil
}

// reversalPlan builds the plan that moves every recorded entry back where it
// came from, newest move first. Operations carry no kind: whatever sits at
// the recorded path moves back, file or directory.
func reversalPlan(rec *journal.Record, root string, createdAt time.Time) (*planner.MovePlan, error) {
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	ops := make([]planner.Operation, 0, len(rec.Entries))
	for i := len(rec.Entries) - 1; i >= 0; i-- {
		entry := rec.Entries[i]
		ops = append(ops, planner.Operation{
			Source:      entry.NewPath,
			Destination: entry.OriginalPath,
		})
	}

	return &planner.MovePlan{
		RunID:      rec.RunID,
		Root:       root,
		Mode:       scan.Mode(rec.Mode),
		CreatedAt:  createdAt,
		Operations: ops,
	}, nil
}

// replayPlan builds the plan that re-applies every recorded move in order.
func replayPlan(rec *journal.Record, root string, createdAt time.Time) (*planner.MovePlan, error) {
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	ops := make([]planner.Operation, 0, len(rec.Entries))
	for _, entry := range rec.Entries {
		ops = append(ops, planner.Operation{
			Source:      entry.OriginalPath,
			Destination: entry.NewPath,
		})
	}

	return &planner.MovePlan{
		RunID:      rec.RunID,
		Root:       root,
		Mode:       scan.Mode(rec.Mode),
		CreatedAt:  createdAt,
		Operations: ops,
	}, nil
}
