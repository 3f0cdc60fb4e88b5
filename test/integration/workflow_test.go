package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/broomkit/broom/internal/engine"
	"github.com/broomkit/broom/internal/planner"
	"github.com/broomkit/broom/internal/scan"
)

// TestOrganizeUndoRedoWorkflow exercises the complete lifecycle:
// organize → undo → redo → undo → journal exhausted.
func TestOrganizeUndoRedoWorkflow(t *testing.T) {
	root := t.TempDir()
	seedTree(t, root, map[string]string{
		"report.pdf":  "annual report",
		"invoice.pdf": "invoice 42",
		"notes.txt":   "meeting notes",
	})
	originalTree := listTree(t, root)

	eng, stub := newTestEngine([]string{
		`{"organization_plan": {"Documents": ["report.pdf", "invoice.pdf"], "Notes": ["notes.txt"]}}`,
	})
	ctx := context.Background()

	// 1. Organize
	orgResult, err := eng.Organize(ctx, &engine.OrganizeRequest{Root: root, Mode: scan.ModeFiles})
	require.NoError(t, err)
	require.Equal(t, 3, orgResult.Report.Applied())
	require.Equal(t, 1, stub.calls)
	organizedTree := []string{
		"Documents",
		filepath.Join("Documents", "invoice.pdf"),
		filepath.Join("Documents", "report.pdf"),
		"Notes",
		filepath.Join("Notes", "notes.txt"),
	}
	require.Equal(t, organizedTree, listTree(t, root))
	require.FileExists(t, orgResult.JournalPath)

	// 2. Content rides along untouched
	require.Equal(t, "annual report", readFile(t, filepath.Join(root, "Documents", "report.pdf")))

	// 3. Undo restores the original layout and removes the emptied folders
	undoResult, err := eng.Undo(ctx, &engine.UndoRequest{Root: root})
	require.NoError(t, err)
	require.Equal(t, 3, undoResult.Report.Applied())
	require.Equal(t, originalTree, listTree(t, root))
	require.ElementsMatch(t, []string{"Documents", "Notes"}, undoResult.PrunedDirs)
	require.Empty(t, undoResult.Warnings)

	// 4. Redo re-applies the organized layout
	redoResult, err := eng.Redo(ctx, &engine.RedoRequest{Root: root})
	require.NoError(t, err)
	require.Equal(t, 3, redoResult.Report.Applied())
	require.Equal(t, organizedTree, listTree(t, root))

	// 5. Undo once more completes the round trip, bytes included
	_, err = eng.Undo(ctx, &engine.UndoRequest{Root: root})
	require.NoError(t, err)
	require.Equal(t, originalTree, listTree(t, root))
	require.Equal(t, "invoice 42", readFile(t, filepath.Join(root, "invoice.pdf")))

	// 6. The undo journal is spent
	_, err = eng.Undo(ctx, &engine.UndoRequest{Root: root})
	require.ErrorIs(t, err, engine.ErrNoJournal)

	// 7. The oracle was consulted once per organize run only
	require.Equal(t, 1, stub.calls)
}

// TestDryRunThenApply verifies a dry run is free of side effects and does
// not stop a real run from following it.
func TestDryRunThenApply(t *testing.T) {
	root := t.TempDir()
	seedTree(t, root, map[string]string{
		"a.pdf": "a",
		"b.pdf": "b",
	})
	originalTree := listTree(t, root)

	eng, _ := newTestEngine([]string{
		`{"organization_plan": {"Documents": ["a.pdf", "b.pdf"]}}`,
	})
	ctx := context.Background()

	// 1. Dry run: plan comes back, disk stays put
	dryResult, err := eng.Organize(ctx, &engine.OrganizeRequest{
		Root:   root,
		Mode:   scan.ModeFiles,
		DryRun: true,
	})
	require.NoError(t, err)
	require.True(t, dryResult.Report.DryRun)
	require.Equal(t, 0, dryResult.Report.Applied())
	require.Equal(t, 2, dryResult.Plan.Len())
	require.Equal(t, originalTree, listTree(t, root))
	require.Empty(t, dryResult.JournalPath)

	// 2. No journal was written
	_, err = eng.Undo(ctx, &engine.UndoRequest{Root: root})
	require.ErrorIs(t, err, engine.ErrNoJournal)

	// 3. The real run proceeds normally afterwards
	realResult, err := eng.Organize(ctx, &engine.OrganizeRequest{Root: root, Mode: scan.ModeFiles})
	require.NoError(t, err)
	require.Equal(t, 2, realResult.Report.Applied())
	require.NotEqual(t, dryResult.Plan.RunID, realResult.Plan.RunID)
	require.FileExists(t, filepath.Join(root, "Documents", "a.pdf"))
}

// TestJournalSurvivesRestart organizes with one engine and undoes with a
// fresh one, as separate process invocations would.
func TestJournalSurvivesRestart(t *testing.T) {
	root := t.TempDir()
	seedTree(t, root, map[string]string{
		"a.pdf":     "a",
		"notes.txt": "n",
	})
	originalTree := listTree(t, root)
	ctx := context.Background()

	first, _ := newTestEngine([]string{
		`{"organization_plan": {"Documents": ["a.pdf"], "Notes": ["notes.txt"]}}`,
	})
	_, err := first.Organize(ctx, &engine.OrganizeRequest{Root: root, Mode: scan.ModeFiles})
	require.NoError(t, err)

	second, _ := newTestEngine(nil)
	undoResult, err := second.Undo(ctx, &engine.UndoRequest{Root: root})
	require.NoError(t, err)
	require.Equal(t, 2, undoResult.Report.Applied())
	require.Equal(t, originalTree, listTree(t, root))

	third, _ := newTestEngine(nil)
	redoResult, err := third.Redo(ctx, &engine.RedoRequest{Root: root})
	require.NoError(t, err)
	require.Equal(t, 2, redoResult.Report.Applied())
	require.FileExists(t, filepath.Join(root, "Documents", "a.pdf"))
}

// TestConcurrentOrganizeExcluded starts a second run against the same root
// while the first is waiting at its confirmation hook, with the lock held.
func TestConcurrentOrganizeExcluded(t *testing.T) {
	root := t.TempDir()
	seedTree(t, root, map[string]string{"a.pdf": "a"})

	eng, _ := newTestEngine([]string{
		`{"organization_plan": {"Documents": ["a.pdf"]}}`,
	})
	rival, _ := newTestEngine(nil)
	ctx := context.Background()

	var rivalErr error
	result, err := eng.Organize(ctx, &engine.OrganizeRequest{
		Root: root,
		Mode: scan.ModeFiles,
		Confirm: func(_ *scan.Inventory, _ *planner.MovePlan) bool {
			_, rivalErr = rival.Organize(ctx, &engine.OrganizeRequest{Root: root, Mode: scan.ModeFiles})
			return true
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Report.Applied())
	require.ErrorIs(t, rivalErr, engine.ErrRootBusy)

	// The lock is free again after the first run finishes.
	_, err = eng.Undo(ctx, &engine.UndoRequest{Root: root})
	require.NoError(t, err)
}

// TestRecursiveOrganizeRoundTrip moves a nested file into a category at the
// root and verifies undo puts it back where it was.
func TestRecursiveOrganizeRoundTrip(t *testing.T) {
	root := t.TempDir()
	seedTree(t, root, map[string]string{
		"top.txt":                         "top",
		filepath.Join("sub", "inner.txt"): "inner",
	})
	originalTree := listTree(t, root)

	eng, stub := newTestEngine([]string{
		`{"organization_plan": {"Notes": ["top.txt", "sub/inner.txt"]}}`,
	})
	ctx := context.Background()

	result, err := eng.Organize(ctx, &engine.OrganizeRequest{
		Root:      root,
		Mode:      scan.ModeFiles,
		Recursive: true,
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Report.Applied())
	require.Equal(t, []string{
		"Notes",
		filepath.Join("Notes", "inner.txt"),
		filepath.Join("Notes", "top.txt"),
		"sub",
	}, listTree(t, root))
	require.Equal(t, 1, stub.calls)

	undoResult, err := eng.Undo(ctx, &engine.UndoRequest{Root: root})
	require.NoError(t, err)
	require.Equal(t, originalTree, listTree(t, root))
	require.Equal(t, "inner", readFile(t, filepath.Join(root, "sub", "inner.txt")))
	require.Equal(t, []string{"Notes"}, undoResult.PrunedDirs)
}

// TestFoldersGroupingRoundTrip groups top-level folders under a parent and
// verifies undo restores them, contents intact.
func TestFoldersGroupingRoundTrip(t *testing.T) {
	root := t.TempDir()
	seedTree(t, root, map[string]string{
		filepath.Join("api", "main.go"):      "package main",
		filepath.Join("web", "index.html"):   "<html>",
		filepath.Join("misc", "scratch.txt"): "scratch",
	})
	originalTree := listTree(t, root)

	eng, _ := newTestEngine([]string{
		`{"organization_plan": {"Code": ["api", "web"], "_standalone": ["misc"]}}`,
	})
	ctx := context.Background()

	result, err := eng.Organize(ctx, &engine.OrganizeRequest{Root: root, Mode: scan.ModeFolders})
	require.NoError(t, err)
	require.Equal(t, 2, result.Report.Applied())
	require.Equal(t, []string{
		"Code",
		filepath.Join("Code", "api"),
		filepath.Join("Code", "api", "main.go"),
		filepath.Join("Code", "web"),
		filepath.Join("Code", "web", "index.html"),
		"misc",
		filepath.Join("misc", "scratch.txt"),
	}, listTree(t, root))

	undoResult, err := eng.Undo(ctx, &engine.UndoRequest{Root: root})
	require.NoError(t, err)
	require.Equal(t, originalTree, listTree(t, root))
	require.Equal(t, "package main", readFile(t, filepath.Join(root, "api", "main.go")))
	require.Equal(t, []string{"Code"}, undoResult.PrunedDirs)
}
