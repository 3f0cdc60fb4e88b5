package planner

import (
	"sync/atomic"
	"time"

	"github.com/broomkit/broom/internal/scan"
)

// Operation is a single planned move of one inventory entry.
type Operation struct {
	// Source is the root-relative path of the entry at compile time.
	Source string

	// Destination is the root-relative path the entry moves to.
	Destination string

	// Kind is the entry kind, re-verified at execution time.
	Kind scan.Kind
}

// Decision records a compiler-level adjustment that is not an error, such as
// a destination collision resolved by suffixing.
type Decision struct {
	// Path is the source path the decision applies to.
	Path string

	// Note is a human-readable explanation.
	Note string
}

// MovePlan is an ordered, validated sequence of move operations for one
// target root. A plan is created once by Compile, consumed at most once by
// the execution engine, and otherwise immutable.
type MovePlan struct {
	// RunID identifies the run that compiled this plan.
	RunID string

	// Root is the absolute path of the target directory.
	Root string

	// Mode is the organization mode the plan was compiled for.
	Mode scan.Mode

	// CreatedAt is the compilation timestamp.
	CreatedAt time.Time

	// Operations is ordered so destination parents are populated shallow
	// first; the executor applies it front to back.
	Operations []Operation

	// Decisions lists the compiler's collision and dedup adjustments.
	Decisions []Decision

	consumed atomic.Bool
}

// Consume marks the plan as applied. The first call returns true; every
// later call returns false, which the executor turns into an
// already-applied rejection.
func (p *MovePlan) Consume() bool {
	return p.consumed.CompareAndSwap(false, true)
}

// Consumed reports whether the plan has been applied for real.
func (p *MovePlan) Consumed() bool {
	return p.consumed.Load()
}

// Len returns the number of operations in the plan.
func (p *MovePlan) Len() int {
	return len(p.Operations)
}

// IsEmpty reports whether the plan contains no operations.
func (p *MovePlan) IsEmpty() bool {
	return len(p.Operations) == 0
}
