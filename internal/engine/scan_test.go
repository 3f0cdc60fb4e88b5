package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/broomkit/broom/internal/scan"
)

// TestScan_InventoriesWithoutTouching checks Scan reports entries without
// consulting the oracle or changing the tree.
func TestScan_InventoriesWithoutTouching(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), "invoice")
	writeFile(t, filepath.Join(root, "sub", "b.txt"), "nested")
	writeFile(t, filepath.Join(root, ".hidden"), "dotfile")
	before := listTree(t, root)

	stub := &stubOracle{}
	eng := newTestEngine(stub)

	result, err := eng.Scan(context.Background(), &ScanRequest{Root: root, Mode: scan.ModeFiles})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Inventory.Len(); got != 1 {
		t.Errorf("non-recursive scan found %d entries, want 1", got)
	}

	deep, err := eng.Scan(context.Background(), &ScanRequest{Root: root, Mode: scan.ModeFiles, Recursive: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := deep.Inventory.Len(); got != 2 {
		t.Errorf("recursive scan found %d entries, want 2", got)
	}
	if _, ok := deep.Inventory.Lookup(filepath.Join("sub", "b.txt")); !ok {
		t.Error("recursive scan missed sub/b.txt")
	}

	if len(stub.requests) != 0 {
		t.Errorf("scan consulted the oracle %d times", len(stub.requests))
	}
	if after := listTree(t, root); !equalStrings(before, after) {
		t.Fatal("scan changed the tree")
	}
}
