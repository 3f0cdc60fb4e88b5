package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"bare tilde", "~", home},
		{"tilde prefix", "~/Downloads", filepath.Join(home, "Downloads")},
		{"absolute path", "/tmp/stuff", "/tmp/stuff"},
		{"relative path", "stuff", "stuff"},
		{"tilde user untouched", "~other/stuff", "~other/stuff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandPath(tt.path); got != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestJSONNeedsYes(t *testing.T) {
	oldJSON := jsonOutput
	defer func() { jsonOutput = oldJSON }()

	jsonOutput = false
	if err := jsonNeedsYes(false); err != nil {
		t.Errorf("plain mode without --yes: unexpected error %v", err)
	}

	jsonOutput = true
	if err := jsonNeedsYes(false); err == nil {
		t.Error("expected error for --json without --yes")
	}
	if err := jsonNeedsYes(true); err != nil {
		t.Errorf("--json with --yes: unexpected error %v", err)
	}
}

func TestOutputJSON(t *testing.T) {
	data := map[string]string{"test": "value"}

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := outputJSON(data)
	if err != nil {
		t.Fatalf("outputJSON() error = %v", err)
	}

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	output := buf.String()

	// Verify it's valid JSON
	var v interface{}
	if err := json.Unmarshal([]byte(output), &v); err != nil {
		t.Errorf("outputJSON() produced invalid JSON: %v", err)
	}
}

func TestPrintFunctions(t *testing.T) {
	// Capture stdout/stderr
	oldStdout := os.Stdout
	oldStderr := os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	PrintSuccess("Success message")
	PrintWarning("Warning message")
	PrintError("Error message")
	PrintInfo("Info message")

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	var bufOut, bufErr bytes.Buffer
	_, _ = bufOut.ReadFrom(rOut)
	_, _ = bufErr.ReadFrom(rErr)

	if bufOut.String() == "" {
		t.Error("PrintSuccess/PrintInfo should write to stdout")
	}
	if bufErr.String() == "" {
		t.Error("PrintError should write to stderr")
	}
}

func TestPrintCount(t *testing.T) {
	if got := PrintCount(1, "item", "items"); got != "1 item" {
		t.Errorf("PrintCount(1) = %q, want %q", got, "1 item")
	}
	if got := PrintCount(3, "item", "items"); got != "3 items" {
		t.Errorf("PrintCount(3) = %q, want %q", got, "3 items")
	}
	if got := PrintCount(0, "item", "items"); got != "0 items" {
		t.Errorf("PrintCount(0) = %q, want %q", got, "0 items")
	}
}
