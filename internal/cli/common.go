package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/broomkit/broom/internal/clock"
	"github.com/broomkit/broom/internal/config"
	"github.com/broomkit/broom/internal/engine"
	"github.com/broomkit/broom/internal/fsops"
	"github.com/broomkit/broom/internal/lock"
	"github.com/broomkit/broom/internal/oracle"
)

// newEngine creates an engine with real implementations of all dependencies.
// A non-empty modelOverride replaces the configured oracle model for this
// invocation.
func newEngine(modelOverride string) (*engine.Engine, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	model := cfg.Oracle.Model
	if modelOverride != "" {
		model = modelOverride
	}
	client := oracle.NewOllama(cfg.Oracle.Host, model, cfg.Oracle.BatchSize, cfg.Oracle.Timeout())

	eng := engine.New(
		fsops.NewRealFS(),
		&clock.RealClock{},
		client,
		lock.NewFlockLocker(),
		cfg,
		newLogger(),
	)
	return eng, cfg, nil
}

// newLogger builds the CLI logger. Logs go to stderr so they never mix with
// command output; --verbose lowers the level to debug.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verboseOutput {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// expandPath resolves a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// promptConfirm prompts the user for a yes/no confirmation.
func promptConfirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// jsonNeedsYes guards mutating commands in JSON mode: machine consumers
// cannot answer an interactive prompt.
func jsonNeedsYes(autoYes bool) error {
	if jsonOutput && !autoYes {
		return fmt.Errorf("--json runs non-interactively: add --yes to confirm")
	}
	return nil
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
