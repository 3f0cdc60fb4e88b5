// Package oracle talks to the external text-generation service that
// proposes groupings for scanned entries.
//
// The adapter owns transport and prompt assembly only. Responses are
// returned raw, one message body per batch; parsing and validation belong
// to the plan compiler, which treats them as untrusted input.
package oracle

import (
	"context"

	"github.com/broomkit/broom/internal/scan"
)

// EntryInfo is the per-entry context handed to the oracle.
type EntryInfo struct {
	RelativePath   string
	Kind           scan.Kind
	SizeBytes      int64
	ContentSummary string
}

// Request carries everything the oracle needs to propose a grouping.
type Request struct {
	Mode    scan.Mode
	Entries []EntryInfo
}

// Response holds the oracle's raw message bodies, one per batch, in batch
// order. Nothing in it has been parsed or trusted yet.
type Response struct {
	Raw []string
}

// Client proposes groupings for scanned entries.
type Client interface {
	// Propose sends the inventory-derived prompts and returns the raw
	// responses. It honors ctx cancellation and never retries; retry
	// policy belongs to the caller.
	Propose(ctx context.Context, req Request) (Response, error)

	// Ping verifies the service is reachable before a run starts.
	Ping(ctx context.Context) error
}

// NewRequest derives the oracle request from a scanned inventory.
func NewRequest(inv *scan.Inventory) Request {
	entries := make([]EntryInfo, 0, len(inv.Entries))
	for _, entry := range inv.Entries {
		entries = append(entries, EntryInfo{
			RelativePath:   entry.RelPath,
			Kind:           entry.Kind,
			SizeBytes:      entry.Size,
			ContentSummary: entry.ContentSummary,
		})
	}
	return Request{Mode: inv.Mode, Entries: entries}
}
