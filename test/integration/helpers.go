package integration

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/broomkit/broom/internal/clock"
	"github.com/broomkit/broom/internal/config"
	"github.com/broomkit/broom/internal/engine"
	"github.com/broomkit/broom/internal/fsops"
	"github.com/broomkit/broom/internal/lock"
	"github.com/broomkit/broom/internal/oracle"
)

// scriptedOracle answers every consultation with the same canned responses,
// standing in for a live Ollama server.
type scriptedOracle struct {
	responses []string
	calls     int
}

func (o *scriptedOracle) Propose(_ context.Context, _ oracle.Request) (oracle.Response, error) {
	o.calls++
	return oracle.Response{Raw: o.responses}, nil
}

func (o *scriptedOracle) Ping(_ context.Context) error { return nil }

// newTestEngine builds an engine against the real filesystem with a scripted
// oracle and a deterministic clock.
func newTestEngine(responses []string) (*engine.Engine, *scriptedOracle) {
	stub := &scriptedOracle{responses: responses}
	eng := engine.New(
		fsops.NewRealFS(),
		clock.NewSteppingClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), time.Second),
		stub,
		lock.NewFlockLocker(),
		config.NewDefaultConfig(),
		nil,
	)
	return eng, stub
}

// seedTree creates the given files under root, making parent directories as
// needed. Keys are root-relative paths.
func seedTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// listTree returns the sorted root-relative paths of everything under root,
// minus dotfile artifacts like the lock file and the journal records.
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}
		if strings.HasPrefix(filepath.Base(path), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	require.NoError(t, err)
	sort.Strings(paths)
	return paths
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
