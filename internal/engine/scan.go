package engine

import (
	"context"
	"fmt"

	"github.com/broomkit/broom/internal/scan"
)

// Scan inventories a target root without changing anything on disk.
// It takes no lock: a scan is read-only and safe beside a live run.
func (e *Engine) Scan(ctx context.Context, req *ScanRequest) (*ScanResult, error) {
	root, err := e.resolveRoot(req.Root)
	if err != nil {
		return nil, err
	}

	inv, err := e.scanner.Scan(root, scan.Options{
		Mode:            req.Mode,
		Recursive:       req.Recursive,
		MaxContentBytes: e.cfg.Scan.MaxContentBytes,
		TextExtensions:  e.cfg.Scan.TextExtensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan root: %w", err)
	}

	return &ScanResult{Inventory: inv}, nil
}
