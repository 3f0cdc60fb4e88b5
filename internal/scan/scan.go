// Package scan builds the inventory of a target directory.
//
// A scan is a read-only traversal: it never mutates the filesystem. Entries
// that cannot be read are recorded as warnings and excluded from the
// inventory rather than aborting the whole scan.
package scan

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/broomkit/broom/internal/clock"
	"github.com/broomkit/broom/internal/fsops"
)

// Mode selects what a scan collects and what the plan will move.
type Mode string

const (
	// ModeFiles organizes individual files into category directories.
	ModeFiles Mode = "files"

	// ModeFolders groups existing top-level directories under parent directories.
	ModeFolders Mode = "folders"
)

// ParseMode converts a user-supplied string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFiles:
		return ModeFiles, nil
	case ModeFolders:
		return ModeFolders, nil
	}
	return "", fmt.Errorf("invalid mode %q: must be %q or %q", s, ModeFiles, ModeFolders)
}

// Kind distinguishes the two entry types a scan can produce.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Entry is one filesystem object under the target root at scan time.
// Entries are immutable once the scan completes.
type Entry struct {
	// RelPath is the root-relative path, never absolute, never containing "..".
	RelPath string

	// Kind is file or directory.
	Kind Kind

	// Size is the byte size for files, zero for directories.
	Size int64

	// ModTime is the entry's modification time at scan time.
	ModTime time.Time

	// ContentSummary is a short excerpt used only as oracle context.
	// Empty for directories.
	ContentSummary string
}

// Warning records an entry that was excluded from the inventory.
type Warning struct {
	RelPath string
	Reason  string
}

// Inventory is the set of entries produced by one scan. It is created once
// per run and discarded after the run.
type Inventory struct {
	Root      string
	Mode      Mode
	Entries   []Entry
	Warnings  []Warning
	ScannedAt time.Time

	index map[string]int
}

// NewInventory builds an indexed inventory from already collected entries.
func NewInventory(root string, mode Mode, entries []Entry, warnings []Warning, scannedAt time.Time) *Inventory {
	inv := &Inventory{
		Root:      root,
		Mode:      mode,
		Entries:   entries,
		Warnings:  warnings,
		ScannedAt: scannedAt,
		index:     make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		inv.index[e.RelPath] = i
	}
	return inv
}

// Lookup returns the entry with the given root-relative path.
func (inv *Inventory) Lookup(relPath string) (Entry, bool) {
	i, ok := inv.index[relPath]
	if !ok {
		return Entry{}, false
	}
	return inv.Entries[i], true
}

// Len returns the number of entries in the inventory.
func (inv *Inventory) Len() int {
	return len(inv.Entries)
}

// Content sentinels mirror what the oracle prompt expects for files whose
// bytes are not useful classification context.
const (
	binaryContent = "Binary file."
	emptyContent  = "<Empty file>"
)

// DefaultMaxContentBytes is how much of a file is read for the content summary.
const DefaultMaxContentBytes = 1024

// DefaultTextExtensions lists extensions treated as text even when the
// sampled bytes contain NUL.
var DefaultTextExtensions = []string{
	".txt", ".md", ".py", ".js", ".html", ".css", ".json", ".xml", ".csv",
	".sh", ".yaml", ".yml", ".ini", ".log", ".rst", ".tex", ".rtf",
}

// Options controls a single scan.
type Options struct {
	Mode      Mode
	Recursive bool

	// MaxContentBytes bounds the per-file content sample. Zero means
	// DefaultMaxContentBytes.
	MaxContentBytes int

	// TextExtensions overrides DefaultTextExtensions when non-nil.
	TextExtensions []string
}

// Scanner produces inventories for target roots.
type Scanner struct {
	fs    fsops.FS
	clock clock.Clock
}

// NewScanner creates a Scanner backed by the given filesystem and clock.
func NewScanner(fs fsops.FS, clk clock.Clock) *Scanner {
	return &Scanner{fs: fs, clock: clk}
}

// Scan traverses root and returns its inventory. The root itself must be a
// readable directory; failures on individual entries become warnings.
func (s *Scanner) Scan(root string, opts Options) (*Inventory, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %q: %w", root, err)
	}

	info, err := s.fs.Lstat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root %q: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", absRoot)
	}

	if opts.MaxContentBytes <= 0 {
		opts.MaxContentBytes = DefaultMaxContentBytes
	}
	if opts.TextExtensions == nil {
		opts.TextExtensions = DefaultTextExtensions
	}

	inv := &Inventory{
		Root:      absRoot,
		Mode:      opts.Mode,
		ScannedAt: s.clock.Now(),
	}

	switch opts.Mode {
	case ModeFolders:
		err = s.scanFolders(absRoot, inv)
	default:
		err = s.scanFiles(absRoot, "", opts, inv)
	}
	if err != nil {
		return nil, err
	}

	return NewInventory(inv.Root, inv.Mode, inv.Entries, inv.Warnings, inv.ScannedAt), nil
}

// scanFiles collects regular files under dir. rel is the root-relative path
// of dir ("" for the root itself). Only the top-level ReadDir failure is
// fatal; everything below it degrades to warnings.
func (s *Scanner) scanFiles(root, rel string, opts Options, inv *Inventory) error {
	dir := filepath.Join(root, rel)
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if rel == "" {
			return fmt.Errorf("failed to read root %q: %w", root, err)
		}
		inv.Warnings = append(inv.Warnings, Warning{RelPath: rel, Reason: err.Error()})
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		// Dotfiles are skipped, which also covers the tool's own
		// artifacts (.broom_undo.json, .broom_redo.json, .broom.lock).
		if strings.HasPrefix(name, ".") {
			continue
		}
		relPath := filepath.Join(rel, name)

		if entry.IsDir() {
			if opts.Recursive {
				if err := s.scanFiles(root, relPath, opts, inv); err != nil {
					return err
				}
			}
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			inv.Warnings = append(inv.Warnings, Warning{RelPath: relPath, Reason: err.Error()})
			continue
		}

		summary, err := s.contentSummary(filepath.Join(dir, name), name, opts)
		if err != nil {
			inv.Warnings = append(inv.Warnings, Warning{RelPath: relPath, Reason: err.Error()})
			continue
		}

		inv.Entries = append(inv.Entries, Entry{
			RelPath:        relPath,
			Kind:           KindFile,
			Size:           info.Size(),
			ModTime:        info.ModTime(),
			ContentSummary: summary,
		})
	}
	return nil
}

// scanFolders collects the direct child directories of root.
func (s *Scanner) scanFolders(root string, inv *Inventory) error {
	entries, err := s.fs.ReadDir(root)
	if err != nil {
		return fmt.Errorf("failed to read root %q: %w", root, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			inv.Warnings = append(inv.Warnings, Warning{RelPath: name, Reason: err.Error()})
			continue
		}

		inv.Entries = append(inv.Entries, Entry{
			RelPath: name,
			Kind:    KindDirectory,
			ModTime: info.ModTime(),
		})
	}
	return nil
}

// contentSummary samples the head of a file for oracle context. Files with a
// NUL byte are reported as binary unless their extension is a known text type.
func (s *Scanner) contentSummary(path, name string, opts Options) (string, error) {
	sample, err := s.fs.ReadPrefix(path, opts.MaxContentBytes)
	if err != nil {
		return "", err
	}
	if len(sample) == 0 {
		return emptyContent, nil
	}
	if bytes.IndexByte(sample, 0) >= 0 && !isTextExtension(name, opts.TextExtensions) {
		return binaryContent, nil
	}
	// Drop invalid UTF-8 so the summary stays safe to embed in the
	// oracle request.
	return strings.ToValidUTF8(string(sample), ""), nil
}

func isTextExtension(name string, textExtensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, t := range textExtensions {
		if ext == t {
			return true
		}
	}
	return false
}
