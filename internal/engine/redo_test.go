package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/broomkit/broom/internal/fsops"
	"github.com/broomkit/broom/internal/journal"
)

// TestRedo_ReappliesUndoneRun checks the full cycle: organize, undo, redo
// lands back on the organized layout with the records swapped back.
func TestRedo_ReappliesUndoneRun(t *testing.T) {
	eng, root := organizeFixture(t)
	organized := listTree(t, root)

	if _, err := eng.Undo(context.Background(), &UndoRequest{Root: root}); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	result, err := eng.Redo(context.Background(), &RedoRequest{Root: root})
	if err != nil {
		t.Fatalf("redo failed: %v", err)
	}

	if got := listTree(t, root); !equalStrings(got, organized) {
		t.Fatalf("tree after redo = %v, want %v", got, organized)
	}
	if result.Report.Applied() != 3 {
		t.Errorf("reapplied moves = %d, want 3", result.Report.Applied())
	}

	store := journal.NewFileStore(fsops.NewRealFS(), root)
	if _, err := store.LoadUndo(); err != nil {
		t.Errorf("undo record should be back: %v", err)
	}
	if _, err := store.LoadRedo(); !os.IsNotExist(err) {
		t.Errorf("redo record should be gone, got %v", err)
	}
}

// TestRedo_ThenUndoAgain checks the records written by redo support another
// full reversal.
func TestRedo_ThenUndoAgain(t *testing.T) {
	eng, root := organizeFixture(t)

	if _, err := eng.Undo(context.Background(), &UndoRequest{Root: root}); err != nil {
		t.Fatalf("first undo failed: %v", err)
	}
	if _, err := eng.Redo(context.Background(), &RedoRequest{Root: root}); err != nil {
		t.Fatalf("redo failed: %v", err)
	}
	if _, err := eng.Undo(context.Background(), &UndoRequest{Root: root}); err != nil {
		t.Fatalf("second undo failed: %v", err)
	}

	want := []string{"a.pdf", "b.pdf", "notes.txt"}
	if got := listTree(t, root); !equalStrings(got, want) {
		t.Fatalf("tree after second undo = %v, want %v", got, want)
	}
}

// TestRedo_NoRecord checks a root without a redo record reports it cleanly.
func TestRedo_NoRecord(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), "invoice")

	eng := newTestEngine(&stubOracle{})

	_, err := eng.Redo(context.Background(), &RedoRequest{Root: root})
	if !errors.Is(err, ErrNoRedo) {
		t.Fatalf("expected ErrNoRedo, got %v", err)
	}
}

// TestRedo_ConfirmDeclined checks a declined confirmation leaves the redo
// record in place.
func TestRedo_ConfirmDeclined(t *testing.T) {
	eng, root := organizeFixture(t)
	if _, err := eng.Undo(context.Background(), &UndoRequest{Root: root}); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	before := listTree(t, root)

	_, err := eng.Redo(context.Background(), &RedoRequest{
		Root:    root,
		Confirm: func(*journal.Record) bool { return false },
	})
	if !errors.Is(err, ErrConfirmationDeclined) {
		t.Fatalf("expected ErrConfirmationDeclined, got %v", err)
	}

	if after := listTree(t, root); !equalStrings(before, after) {
		t.Fatal("declined redo changed the tree")
	}
	store := journal.NewFileStore(fsops.NewRealFS(), root)
	if _, err := store.LoadRedo(); err != nil {
		t.Errorf("redo record should survive a declined run: %v", err)
	}
}
