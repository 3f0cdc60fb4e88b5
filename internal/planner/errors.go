package planner

import "errors"

var (
	// ErrOracleResponseInvalid indicates the oracle's response could not be
	// parsed into a plan. Fatal to the run; nothing is executed.
	ErrOracleResponseInvalid = errors.New("oracle response invalid")

	// ErrUnknownEntry indicates the oracle referenced a path that is not in
	// the inventory. Guards against hallucinated assignments.
	ErrUnknownEntry = errors.New("unknown inventory entry")

	// ErrInvalidPath indicates a source or destination would escape the
	// target root or is otherwise malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrCycle indicates an operation would move an entry into a path
	// another operation vacates or populates ambiguously.
	ErrCycle = errors.New("cyclic plan")
)
