// Package executor carries out compiled move plans against the real
// filesystem.
//
// Operations are applied in plan order but isolated from each other: a
// source that vanished since scanning is skipped, a refused move is
// recorded as failed, and execution continues with the remaining
// operations. A destination that became occupied after planning is renamed
// with the compiler's suffix rule, so execution never overwrites anything.
package executor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/broomkit/broom/internal/clock"
	"github.com/broomkit/broom/internal/fsops"
	"github.com/broomkit/broom/internal/planner"
	"github.com/broomkit/broom/internal/scan"
)

// ErrAlreadyApplied is returned when a plan that was already executed for
// real is applied a second time.
var ErrAlreadyApplied = errors.New("plan already applied")

// Executor applies move plans.
type Executor struct {
	fs    fsops.FS
	clock clock.Clock
}

// New creates an Executor with the given dependencies.
func New(fs fsops.FS, clk clock.Clock) *Executor {
	return &Executor{
		fs:    fs,
		clock: clk,
	}
}

// Apply executes the plan's operations in order and reports what happened
// to each one. With dryRun set it only reports what would happen: nothing
// on disk changes and the plan stays reusable. A real run consumes the
// plan, so applying the same plan twice returns ErrAlreadyApplied.
func (e *Executor) Apply(plan *planner.MovePlan, dryRun bool) (*Report, error) {
	report := &Report{
		RunID:     plan.RunID,
		Root:      plan.Root,
		Mode:      plan.Mode,
		DryRun:    dryRun,
		StartedAt: e.clock.Now(),
		Results:   []OperationResult{},
	}

	if dryRun {
		for _, op := range plan.Operations {
			report.Results = append(report.Results, OperationResult{
				Source:      op.Source,
				Destination: op.Destination,
				FinalPath:   op.Destination,
				Status:      StatusPlanned,
			})
		}
		report.FinishedAt = e.clock.Now()
		return report, nil
	}

	if !plan.Consume() {
		return nil, fmt.Errorf("%w: run %s", ErrAlreadyApplied, plan.RunID)
	}

	for _, op := range plan.Operations {
		report.Results = append(report.Results, e.applyOne(plan.Root, op))
	}

	report.FinishedAt = e.clock.Now()
	return report, nil
}

// applyOne moves a single entry. Outcomes are encoded in the result rather
// than returned as errors so one stubborn entry cannot abort the run.
func (e *Executor) applyOne(root string, op planner.Operation) OperationResult {
	result := OperationResult{
		Source:      op.Source,
		Destination: op.Destination,
	}

	sourcePath := filepath.Join(root, op.Source)
	info, err := e.fs.Lstat(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			result.Status = StatusSkipped
			result.Reason = "source no longer exists"
			return result
		}
		result.Status = StatusFailed
		result.Reason = fmt.Sprintf("failed to stat source: %v", err)
		return result
	}
	if !kindMatches(info, op.Kind) {
		result.Status = StatusSkipped
		result.Reason = "source changed kind since scanning"
		return result
	}

	finalPath, err := e.freeDestination(root, op.Destination)
	if err != nil {
		result.Status = StatusFailed
		result.Reason = fmt.Sprintf("failed to check destination: %v", err)
		return result
	}

	if err := e.fs.Move(sourcePath, filepath.Join(root, finalPath)); err != nil {
		result.Status = StatusFailed
		result.Reason = fmt.Sprintf("failed to move: %v", err)
		return result
	}

	result.Status = StatusApplied
	result.FinalPath = finalPath
	result.AppliedAt = e.clock.Now()
	return result
}

// freeDestination returns the planned destination or, when something
// already occupies it on disk, the first free suffixed variant. The suffix
// rule is the compiler's, so planned and live names agree in shape.
func (e *Executor) freeDestination(root, destination string) (string, error) {
	occupied, err := e.fs.Exists(filepath.Join(root, destination))
	if err != nil {
		return "", err
	}
	if !occupied {
		return destination, nil
	}

	var probeErr error
	final := planner.NextFreeDestination(destination, func(candidate string) bool {
		if probeErr != nil {
			return false
		}
		exists, err := e.fs.Exists(filepath.Join(root, candidate))
		if err != nil {
			probeErr = err
			return false
		}
		return exists
	})
	if probeErr != nil {
		return "", probeErr
	}
	return final, nil
}

// kindMatches reports whether the live entry still has the kind the plan
// was compiled against. Anything that is neither a regular file nor a
// directory never matches, so symlinks dropped in after scanning are left
// alone. Replay plans built from a journal carry no recorded kind; either
// kind may move then.
func kindMatches(info os.FileInfo, kind scan.Kind) bool {
	switch kind {
	case scan.KindDirectory:
		return info.IsDir()
	case scan.KindFile:
		return info.Mode().IsRegular()
	}
	return info.IsDir() || info.Mode().IsRegular()
}
