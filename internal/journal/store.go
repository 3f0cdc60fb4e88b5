package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/broomkit/broom/internal/fsops"
)

// Store persists undo and redo records for one target root.
type Store interface {
	// LoadUndo loads the undo record.
	// Returns os.ErrNotExist if no undo record exists.
	LoadUndo() (*Record, error)

	// SaveUndo saves the undo record atomically, replacing any prior one.
	SaveUndo(rec *Record) error

	// ClearUndo deletes the undo record. Missing records are not an error.
	ClearUndo() error

	// LoadRedo loads the redo record.
	// Returns os.ErrNotExist if no redo record exists.
	LoadRedo() (*Record, error)

	// SaveRedo saves the redo record atomically, replacing any prior one.
	SaveRedo(rec *Record) error

	// ClearRedo deletes the redo record. Missing records are not an error.
	ClearRedo() error

	// UndoPath returns the absolute path of the undo record file.
	UndoPath() string
}

// FileStore implements Store using JSON files adjacent to the target root.
// The record travels with the directory it describes.
type FileStore struct {
	fs   fsops.FS
	root string
}

// NewFileStore creates a Store for the given target root.
func NewFileStore(fs fsops.FS, root string) *FileStore {
	return &FileStore{fs: fs, root: root}
}

// UndoPath returns the absolute path of the undo record file.
func (s *FileStore) UndoPath() string {
	return filepath.Join(s.root, UndoFilename)
}

// RedoPath returns the absolute path of the redo record file.
func (s *FileStore) RedoPath() string {
	return filepath.Join(s.root, RedoFilename)
}

// LoadUndo loads the undo record.
func (s *FileStore) LoadUndo() (*Record, error) {
	return s.load(s.UndoPath())
}

// SaveUndo saves the undo record atomically, replacing any prior one.
func (s *FileStore) SaveUndo(rec *Record) error {
	return s.save(s.UndoPath(), rec)
}

// ClearUndo deletes the undo record.
func (s *FileStore) ClearUndo() error {
	return s.clear(s.UndoPath())
}

// LoadRedo loads the redo record.
func (s *FileStore) LoadRedo() (*Record, error) {
	return s.load(s.RedoPath())
}

// SaveRedo saves the redo record atomically, replacing any prior one.
func (s *FileStore) SaveRedo(rec *Record) error {
	return s.save(s.RedoPath(), rec)
}

// ClearRedo deletes the redo record.
func (s *FileStore) ClearRedo() error {
	return s.clear(s.RedoPath())
}

func (s *FileStore) load(path string) (*Record, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journal: %w", err)
	}
	if rec.Version != Version {
		return nil, fmt.Errorf("unsupported journal version %d in %s", rec.Version, path)
	}

	return &rec, nil
}

func (s *FileStore) save(path string, rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	if err := s.fs.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}

	return nil
}

func (s *FileStore) clear(path string) error {
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete journal: %w", err)
	}
	return nil
}
