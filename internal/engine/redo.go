package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/broomkit/broom/internal/journal"
)

// Algorithm steps:
// 1. Resolve and verify the target root
// 2. Lock the root for the full replay
// 3. Load the redo record; a missing record means nothing to redo
// 4. Ask the confirmation hook
// 5. Replay the recorded moves forward
// 6. Write the undo record from the moves that actually applied
// 7. Delete the redo record
func (e *Engine) Redo(ctx context.Context, req *RedoRequest) (*RedoResult, error) {
	root, err := e.resolveRoot(req.Root)
	if err != nil {
		return nil, err
	}

	release, err := e.lockRoot(root)
	if err != nil {
		return nil, err
	}
	defer release()

	store := e.journalStore(root)
	rec, err := store.LoadRedo()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRedo, root)
		}
		return nil, err
	}

	if req.Confirm != nil && !req.Confirm(rec) {
		return nil, ErrConfirmationDeclined
	}

	plan, err := replayPlan(rec, root, e.clock.Now())
	if err != nil {
		return nil, err
	}

	report, err := e.executor.Apply(plan, false)
	if err != nil {
		return nil, err
	}
	e.logger.Info("redo complete",
		slog.String("runId", rec.RunID),
		slog.Int("applied", report.Applied()),
		slog.Int("skipped", report.Skipped()),
		slog.Int("failed", report.Failed()))

	result := &RedoResult{Record: rec, Report: report}

	if report.Applied() > 0 {
		undo := journal.NewRecord(rec.RunID, rec.Mode, e.clock.Now())
		for _, move := range report.Moves() {
			undo.Append(move.Source, move.FinalPath, move.AppliedAt)
		}
		if err := store.SaveUndo(undo); err != nil {
			return result, fmt.Errorf("failed to write undo record: %w", err)
		}
	}

	if err := store.ClearRedo(); err != nil {
		return result, fmt.Errorf("failed to delete redo record: %w", err)
	}

	return result, nil
}
