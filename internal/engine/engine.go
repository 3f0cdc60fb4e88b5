// Package engine provides the core business logic for broom operations.
//
// The engine package acts as the orchestration layer between user-facing
// surfaces (CLI, MCP server) and lower-level operations. It coordinates
// scanning, oracle consultation, plan compilation, safe execution, and the
// undo journal.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Organize: Runs the scan, consult, compile, execute pipeline
//   - Undo/Redo: Replays the journal backwards and forwards
//   - Scan: Read-only inventory of a target root
package engine

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"

	"github.com/broomkit/broom/internal/clock"
	"github.com/broomkit/broom/internal/config"
	"github.com/broomkit/broom/internal/executor"
	"github.com/broomkit/broom/internal/fsops"
	"github.com/broomkit/broom/internal/journal"
	"github.com/broomkit/broom/internal/lock"
	"github.com/broomkit/broom/internal/oracle"
	"github.com/broomkit/broom/internal/scan"
)

// Engine orchestrates all broom operations.
// It is the main API surface called by the CLI and the MCP server.
type Engine struct {
	fs       fsops.FS
	clock    clock.Clock
	oracle   oracle.Client
	locker   lock.Locker
	scanner  *scan.Scanner
	executor *executor.Executor
	cfg      *config.Config
	logger   *slog.Logger
}

// New creates a new Engine with the given dependencies.
// A nil logger disables logging.
func New(
	fs fsops.FS,
	clk clock.Clock,
	oracleClient oracle.Client,
	locker lock.Locker,
	cfg *config.Config,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		fs:       fs,
		clock:    clk,
		oracle:   oracleClient,
		locker:   locker,
		scanner:  scan.NewScanner(fs, clk),
		executor: executor.New(fs, clk),
		cfg:      cfg,
		logger:   logger,
	}
}

// resolveRoot normalizes the requested root and verifies it is a directory.
func (e *Engine) resolveRoot(root string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("%w: no path given", ErrRootNotDirectory)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %q: %w", root, err)
	}

	info, err := e.fs.Lstat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrRootNotDirectory, abs)
		}
		return "", fmt.Errorf("failed to stat root %q: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrRootNotDirectory, abs)
	}

	return abs, nil
}

// lockRoot takes the exclusive lock for root and returns its release func.
func (e *Engine) lockRoot(root string) (func(), error) {
	held, err := e.locker.Acquire(root)
	if err != nil {
		if errors.Is(err, lock.ErrBusy) {
			return nil, fmt.Errorf("%w: %s", ErrRootBusy, root)
		}
		return nil, err
	}

	return func() {
		if err := held.Release(); err != nil {
			e.logger.Warn("failed to release root lock",
				slog.String("root", root), slog.String("error", err.Error()))
		}
	}, nil
}

// journalStore returns the journal store bound to root.
func (e *Engine) journalStore(root string) journal.Store {
	return journal.NewFileStore(e.fs, root)
}

// newRunID mints a unique, lexically sortable run identifier.
func (e *Engine) newRunID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(e.clock.Now()), entropy).String()
}
