package executor

import (
	"time"

	"github.com/broomkit/broom/internal/scan"
)

// Status describes the outcome of a single planned move.
type Status string

const (
	// StatusApplied means the entry was moved to its final destination.
	StatusApplied Status = "applied"

	// StatusSkipped means the operation was not attempted, usually because
	// the source disappeared or changed kind between scanning and execution.
	StatusSkipped Status = "skipped"

	// StatusFailed means the move was attempted and the filesystem refused.
	StatusFailed Status = "failed"

	// StatusPlanned marks dry-run results. Nothing on disk was touched.
	StatusPlanned Status = "planned"
)

// OperationResult records the fate of one operation.
type OperationResult struct {
	// Source is the root-relative path the compiler planned to move.
	Source string `json:"source"`

	// Destination is the root-relative destination the compiler chose.
	Destination string `json:"destination"`

	// FinalPath is where the entry actually went. It differs from
	// Destination when the planned name was occupied at execution time.
	// Empty for skipped and failed operations.
	FinalPath string `json:"finalPath,omitempty"`

	// Status is the outcome of this operation.
	Status Status `json:"status"`

	// Reason explains a skip or failure. Empty for applied operations.
	Reason string `json:"reason,omitempty"`

	// AppliedAt is when the move completed. Zero unless Status is applied.
	AppliedAt time.Time `json:"appliedAt"`
}

// Diverted reports whether execution had to pick a different name than the
// compiler planned.
func (r OperationResult) Diverted() bool {
	return r.Status == StatusApplied && r.FinalPath != r.Destination
}

// Report summarizes one execution run, one result per plan operation, in
// plan order.
type Report struct {
	RunID      string            `json:"runId"`
	Root       string            `json:"root"`
	Mode       scan.Mode         `json:"mode"`
	DryRun     bool              `json:"dryRun"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt"`
	Results    []OperationResult `json:"results"`
}

// Applied returns how many operations actually moved an entry.
func (r *Report) Applied() int {
	return r.countStatus(StatusApplied)
}

// Skipped returns how many operations were not attempted.
func (r *Report) Skipped() int {
	return r.countStatus(StatusSkipped)
}

// Failed returns how many operations were attempted and refused.
func (r *Report) Failed() int {
	return r.countStatus(StatusFailed)
}

// Moves returns the applied results in execution order. Their Source and
// FinalPath pairs are exactly what an undo journal must reverse.
func (r *Report) Moves() []OperationResult {
	moves := []OperationResult{}
	for _, res := range r.Results {
		if res.Status == StatusApplied {
			moves = append(moves, res)
		}
	}
	return moves
}

func (r *Report) countStatus(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}
