package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/broomkit/broom/internal/journal"
	"github.com/broomkit/broom/internal/oracle"
	"github.com/broomkit/broom/internal/planner"
	"github.com/broomkit/broom/internal/scan"
)

// Algorithm steps:
// 1. Resolve and verify the target root
// 2. Check the oracle is reachable before touching anything
// 3. Lock the root for the full run
// 4. Scan the root into an inventory
// 5. Consult the oracle and compile the plan
// 6. Stop after reporting if DryRun
// 7. Ask the confirmation hook, then execute the plan
// 8. Write the undo record and invalidate any stale redo record
func (e *Engine) Organize(ctx context.Context, req *OrganizeRequest) (*OrganizeResult, error) {
	root, err := e.resolveRoot(req.Root)
	if err != nil {
		return nil, err
	}

	if err := e.oracle.Ping(ctx); err != nil {
		return nil, err
	}

	release, err := e.lockRoot(root)
	if err != nil {
		return nil, err
	}
	defer release()

	inv, err := e.scanner.Scan(root, scan.Options{
		Mode:            req.Mode,
		Recursive:       req.Recursive,
		MaxContentBytes: e.cfg.Scan.MaxContentBytes,
		TextExtensions:  e.cfg.Scan.TextExtensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan root: %w", err)
	}
	if inv.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoEntries, root)
	}
	e.logger.Info("scan complete",
		slog.String("root", root),
		slog.String("mode", string(inv.Mode)),
		slog.Int("entries", inv.Len()),
		slog.Int("warnings", len(inv.Warnings)))

	// Step 5: the oracle gets its own deadline so a stalled model cannot
	// hold the root lock forever.
	oracleCtx, cancel := context.WithTimeout(ctx, e.cfg.Oracle.Timeout())
	defer cancel()
	resp, err := e.oracle.Propose(oracleCtx, oracle.NewRequest(inv))
	if err != nil {
		return nil, fmt.Errorf("oracle consultation failed: %w", err)
	}

	runID := e.newRunID()
	plan, err := planner.Compile(inv, resp.Raw, runID, e.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to compile plan: %w", err)
	}
	e.logger.Info("plan compiled",
		slog.String("runId", runID),
		slog.Int("operations", plan.Len()),
		slog.Int("decisions", len(plan.Decisions)))

	result := &OrganizeResult{Inventory: inv, Plan: plan}

	if req.DryRun {
		report, err := e.executor.Apply(plan, true)
		if err != nil {
			return nil, err
		}
		result.Report = report
		return result, nil
	}

	if req.Confirm != nil && !req.Confirm(inv, plan) {
		return nil, ErrConfirmationDeclined
	}

	report, err := e.executor.Apply(plan, false)
	if err != nil {
		return nil, err
	}
	result.Report = report
	e.logger.Info("plan executed",
		slog.String("runId", runID),
		slog.Int("applied", report.Applied()),
		slog.Int("skipped", report.Skipped()),
		slog.Int("failed", report.Failed()))

	if report.Applied() == 0 {
		return result, nil
	}

	record := journal.NewRecord(runID, string(inv.Mode), e.clock.Now())
	for _, move := range report.Moves() {
		record.Append(move.Source, move.FinalPath, move.AppliedAt)
	}

	store := e.journalStore(root)
	if err := store.SaveUndo(record); err != nil {
		// The moves already happened. Return the report alongside the
		// error so the caller still sees what changed.
		return result, fmt.Errorf("failed to write undo record: %w", err)
	}
	result.JournalPath = store.UndoPath()

	if err := store.ClearRedo(); err != nil {
		e.logger.Warn("failed to clear stale redo record",
			slog.String("root", root), slog.String("error", err.Error()))
	}

	return result, nil
}
