package executor

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/broomkit/broom/internal/clock"
	"github.com/broomkit/broom/internal/fsops"
	"github.com/broomkit/broom/internal/planner"
	"github.com/broomkit/broom/internal/scan"
)

var testStart = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// newTestExecutor returns an executor backed by the real filesystem and a
// stepping clock, so applied-at stamps are deterministic.
func newTestExecutor() *Executor {
	return New(fsops.NewRealFS(), clock.NewSteppingClock(testStart, time.Second))
}

func newTestPlan(root string, ops ...planner.Operation) *planner.MovePlan {
	return &planner.MovePlan{
		RunID:      "run-test",
		Root:       root,
		Mode:       scan.ModeFiles,
		CreatedAt:  testStart,
		Operations: ops,
	}
}

func fileOp(source, destination string) planner.Operation {
	return planner.Operation{Source: source, Destination: destination, Kind: scan.KindFile}
}

func dirOp(source, destination string) planner.Operation {
	return planner.Operation{Source: source, Destination: destination, Kind: scan.KindDirectory}
}

func writeFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	path := filepath.Join(root, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func readFile(t *testing.T, root, relPath string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, relPath))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	return string(data)
}

// listTree returns every file and directory under root as sorted relative
// paths, for before/after comparisons.
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	sort.Strings(paths)
	return paths
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestApply_MovesEntries verifies the basic run: every operation applied,
// sources gone, destinations populated, stamps strictly increasing.
func TestApply_MovesEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "report.pdf", "pdf")
	writeFile(t, root, "notes.txt", "notes")

	plan := newTestPlan(root,
		fileOp("notes.txt", filepath.Join("Notes", "notes.txt")),
		fileOp("report.pdf", filepath.Join("Documents", "report.pdf")),
	)

	report, err := newTestExecutor().Apply(plan, false)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if report.Applied() != 2 || report.Skipped() != 0 || report.Failed() != 0 {
		t.Errorf("expected 2 applied, got applied=%d skipped=%d failed=%d",
			report.Applied(), report.Skipped(), report.Failed())
	}
	if got := readFile(t, root, filepath.Join("Notes", "notes.txt")); got != "notes" {
		t.Errorf("expected moved content 'notes', got %q", got)
	}
	if got := readFile(t, root, filepath.Join("Documents", "report.pdf")); got != "pdf" {
		t.Errorf("expected moved content 'pdf', got %q", got)
	}
	for _, source := range []string{"notes.txt", "report.pdf"} {
		if _, err := os.Lstat(filepath.Join(root, source)); !os.IsNotExist(err) {
			t.Errorf("expected source %s to be gone, got err=%v", source, err)
		}
	}

	moves := report.Moves()
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	if !moves[1].AppliedAt.After(moves[0].AppliedAt) {
		t.Errorf("expected strictly increasing applied-at stamps, got %v then %v",
			moves[0].AppliedAt, moves[1].AppliedAt)
	}
	for _, move := range moves {
		if move.FinalPath != move.Destination {
			t.Errorf("expected FinalPath %q to match Destination %q", move.FinalPath, move.Destination)
		}
		if move.Diverted() {
			t.Errorf("expected no diversion for %s", move.Source)
		}
	}
}

// TestApply_MovesDirectories verifies folder-mode moves carry a directory
// and its contents as one unit.
func TestApply_MovesDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, filepath.Join("vacation photos", "beach.jpg"), "jpg")

	plan := newTestPlan(root, dirOp("vacation photos", filepath.Join("Photos", "vacation photos")))
	plan.Mode = scan.ModeFolders

	report, err := newTestExecutor().Apply(plan, false)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if report.Applied() != 1 {
		t.Fatalf("expected 1 applied, got %d", report.Applied())
	}
	nested := filepath.Join("Photos", "vacation photos", "beach.jpg")
	if got := readFile(t, root, nested); got != "jpg" {
		t.Errorf("expected nested file to survive the move, got %q", got)
	}
	if _, err := os.Lstat(filepath.Join(root, "vacation photos")); !os.IsNotExist(err) {
		t.Errorf("expected original directory to be gone, got err=%v", err)
	}
}

// TestApply_DryRun verifies a dry run reports every operation without
// touching disk or consuming the plan.
func TestApply_DryRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "report.pdf", "pdf")
	writeFile(t, root, "notes.txt", "notes")
	before := listTree(t, root)

	plan := newTestPlan(root,
		fileOp("notes.txt", filepath.Join("Notes", "notes.txt")),
		fileOp("report.pdf", filepath.Join("Documents", "report.pdf")),
	)
	executor := newTestExecutor()

	report, err := executor.Apply(plan, true)
	if err != nil {
		t.Fatalf("dry-run Apply failed: %v", err)
	}

	if !report.DryRun {
		t.Error("expected DryRun to be set on the report")
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	for _, result := range report.Results {
		if result.Status != StatusPlanned {
			t.Errorf("expected planned status for %s, got %s", result.Source, result.Status)
		}
	}
	if report.Applied() != 0 {
		t.Errorf("expected 0 applied on dry run, got %d", report.Applied())
	}
	if plan.Consumed() {
		t.Error("expected dry run to leave the plan unconsumed")
	}
	if after := listTree(t, root); !equalStrings(before, after) {
		t.Errorf("expected tree unchanged after dry run, before=%v after=%v", before, after)
	}

	// The same plan must still be applicable for real.
	report, err = executor.Apply(plan, false)
	if err != nil {
		t.Fatalf("real Apply after dry run failed: %v", err)
	}
	if report.Applied() != 2 {
		t.Errorf("expected 2 applied after dry run, got %d", report.Applied())
	}
}

// TestApply_SecondApplyRejected verifies one-shot plan consumption.
func TestApply_SecondApplyRejected(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a")

	plan := newTestPlan(root, fileOp("a.txt", filepath.Join("Docs", "a.txt")))
	executor := newTestExecutor()

	if _, err := executor.Apply(plan, false); err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}

	report, err := executor.Apply(plan, false)
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Errorf("expected ErrAlreadyApplied, got %v", err)
	}
	if report != nil {
		t.Errorf("expected nil report on rejected apply, got %+v", report)
	}
}

// TestApply_SkipsMissingSource verifies an entry deleted between planning
// and execution is skipped while the rest of the run proceeds.
func TestApply_SkipsMissingSource(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.txt", "keep")

	plan := newTestPlan(root,
		fileOp("gone.txt", filepath.Join("Docs", "gone.txt")),
		fileOp("keep.txt", filepath.Join("Docs", "keep.txt")),
	)

	report, err := newTestExecutor().Apply(plan, false)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if report.Applied() != 1 || report.Skipped() != 1 {
		t.Fatalf("expected 1 applied and 1 skipped, got applied=%d skipped=%d",
			report.Applied(), report.Skipped())
	}
	skipped := report.Results[0]
	if skipped.Source != "gone.txt" || skipped.Status != StatusSkipped {
		t.Errorf("expected gone.txt skipped, got %+v", skipped)
	}
	if skipped.Reason == "" {
		t.Error("expected a reason on the skipped result")
	}
	if got := readFile(t, root, filepath.Join("Docs", "keep.txt")); got != "keep" {
		t.Errorf("expected keep.txt moved despite the skip, got %q", got)
	}
}

// TestApply_SkipsChangedKind verifies an entry whose kind changed after
// scanning is left alone.
func TestApply_SkipsChangedKind(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "notes.txt"), 0755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	plan := newTestPlan(root, fileOp("notes.txt", filepath.Join("Notes", "notes.txt")))

	report, err := newTestExecutor().Apply(plan, false)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if report.Skipped() != 1 {
		t.Fatalf("expected 1 skipped, got %d", report.Skipped())
	}
	if info, err := os.Lstat(filepath.Join(root, "notes.txt")); err != nil || !info.IsDir() {
		t.Errorf("expected directory notes.txt untouched, got info=%v err=%v", info, err)
	}
}

// TestApply_ResolvesOccupiedDestination verifies a destination that became
// occupied after planning is suffixed instead of overwritten.
func TestApply_ResolvesOccupiedDestination(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "photo.jpg", "new")
	writeFile(t, root, filepath.Join("Photos", "photo.jpg"), "existing")

	plan := newTestPlan(root, fileOp("photo.jpg", filepath.Join("Photos", "photo.jpg")))

	report, err := newTestExecutor().Apply(plan, false)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if report.Applied() != 1 {
		t.Fatalf("expected 1 applied, got %d", report.Applied())
	}
	result := report.Results[0]
	wantFinal := filepath.Join("Photos", "photo_1.jpg")
	if result.FinalPath != wantFinal {
		t.Errorf("expected final path %q, got %q", wantFinal, result.FinalPath)
	}
	if !result.Diverted() {
		t.Error("expected the result to report a diversion")
	}
	if got := readFile(t, root, filepath.Join("Photos", "photo.jpg")); got != "existing" {
		t.Errorf("expected occupant untouched, got %q", got)
	}
	if got := readFile(t, root, wantFinal); got != "new" {
		t.Errorf("expected moved content at %s, got %q", wantFinal, got)
	}
}

// TestApply_FailureDoesNotAbortRun verifies a refused move is recorded and
// the remaining operations still run.
func TestApply_FailureDoesNotAbortRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a")
	writeFile(t, root, "b.txt", "b")
	// A regular file where the first operation needs a directory.
	writeFile(t, root, "Blocked", "not a directory")

	plan := newTestPlan(root,
		fileOp("a.txt", filepath.Join("Blocked", "a.txt")),
		fileOp("b.txt", filepath.Join("Docs", "b.txt")),
	)

	report, err := newTestExecutor().Apply(plan, false)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if report.Failed() != 1 || report.Applied() != 1 {
		t.Fatalf("expected 1 failed and 1 applied, got failed=%d applied=%d",
			report.Failed(), report.Applied())
	}
	failed := report.Results[0]
	if failed.Status != StatusFailed || failed.Reason == "" {
		t.Errorf("expected failed result with reason, got %+v", failed)
	}
	if got := readFile(t, root, "a.txt"); got != "a" {
		t.Errorf("expected a.txt left in place after failure, got %q", got)
	}
	if got := readFile(t, root, filepath.Join("Docs", "b.txt")); got != "b" {
		t.Errorf("expected b.txt moved despite earlier failure, got %q", got)
	}
}

// TestApply_EmptyPlan verifies an empty plan produces an empty report.
func TestApply_EmptyPlan(t *testing.T) {
	root := t.TempDir()

	report, err := newTestExecutor().Apply(newTestPlan(root), false)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(report.Results) != 0 {
		t.Errorf("expected no results, got %d", len(report.Results))
	}
	if report.RunID != "run-test" {
		t.Errorf("expected run ID carried onto the report, got %q", report.RunID)
	}
}
