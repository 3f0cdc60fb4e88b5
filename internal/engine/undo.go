package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/broomkit/broom/internal/journal"
)

// Algorithm steps:
// 1. Resolve and verify the target root
// 2. Lock the root for the full replay
// 3. Load the undo record; a missing record means nothing to undo
// 4. Ask the confirmation hook
// 5. Replay the recorded moves backwards, newest first
// 6. Write the redo record from the moves that actually reversed
// 7. Delete the undo record
// 8. Prune category directories the reversal left empty
func (e *Engine) Undo(ctx context.Context, req *UndoRequest) (*UndoResult, error) {
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
	rec, err := store.LoadUndo()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoJournal, root)
		}
		return nil, err
	}

	if req.Confirm != nil && !req.Confirm(rec) {
		return nil, ErrConfirmationDeclined
	}

	plan, err := reversalPlan(rec, root, e.clock.Now())
	if err != nil {
		return nil, err
	}

	report, err := e.executor.Apply(plan, false)
	if err != nil {
		return nil, err
	}
	e.logger.Info("undo complete",
		slog.String("runId", rec.RunID),
		slog.Int("reversed", report.Applied()),
		slog.Int("skipped", report.Skipped()),
		slog.Int("failed", report.Failed()))

	result := &UndoResult{Record: rec, Report: report}

	// Step 6: each redo entry maps where the entry sits now to where the
	// run had put it. FinalPath can differ from the recorded original
	// when that spot got reoccupied in the meantime.
	if report.Applied() > 0 {
		redo := journal.NewRecord(rec.RunID, rec.Mode, e.clock.Now())
		for _, move := range report.Moves() {
			redo.Append(move.FinalPath, move.Source, move.AppliedAt)
		}
		if err := store.SaveRedo(redo); err != nil {
			return result, fmt.Errorf("failed to write redo record: %w", err)
		}
	}

	if err := store.ClearUndo(); err != nil {
		return result, fmt.Errorf("failed to delete undo record: %w", err)
	}

	result.PrunedDirs, result.Warnings = e.pruneEmptyDirs(root, rec)

	return result, nil
}

// pruneEmptyDirs removes the destination directories of a reversed run if
// the reversal emptied them. Directories that still hold anything are left
// alone, so pre-existing content is never touched.
func (e *Engine) pruneEmptyDirs(root string, rec *journal.Record) (pruned, warnings []string) {
	seen := make(map[string]struct{})
	var dirs []string
	for _, entry := range rec.Entries {
		dir := filepath.Dir(entry.NewPath)
		if dir == "." {
			continue
		}
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}

	sort.Slice(dirs, func(i, j int) bool {
		di := strings.Count(dirs[i], string(filepath.Separator))
		dj := strings.Count(dirs[j], string(filepath.Separator))
		if di != dj {
			return di > dj // Deeper paths first
		}
		return dirs[i] < dirs[j] // Alphabetically for same depth
	})

	for _, dir := range dirs {
		absDir := filepath.Join(root, dir)
		entries, err := e.fs.ReadDir(absDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			warnings = append(warnings, fmt.Sprintf("could not check directory %s: %v", dir, err))
			continue
		}
		if len(entries) != 0 {
			continue
		}
		if err := e.fs.Remove(absDir); err != nil {
			warnings = append(warnings, fmt.Sprintf("could not remove empty directory %s: %v", dir, err))
			continue
		}
		pruned = append(pruned, dir)
	}

	return pruned, warnings
}
