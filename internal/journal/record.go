package journal

import "time"

// Version is the on-disk record format version.
const Version = 1

// Filenames of the journal artifacts, stored adjacent to the organized root.
// They are dotfiles so the scanner never inventories them.
const (
	UndoFilename = ".broom_undo.json"
	RedoFilename = ".broom_redo.json"
)

// Entry is one durable reversal record: the literal inverse of a
// successfully applied move.
type Entry struct {
	// OriginalPath is the root-relative path before the move.
	OriginalPath string `json:"originalPath"`

	// NewPath is the root-relative path after the move.
	NewPath string `json:"newPath"`

	// AppliedAt is when the move completed.
	AppliedAt time.Time `json:"appliedAt"`
}

// Record is the full journal document for one completed run. A new
// successful run fully replaces the prior record: only one level of undo is
// retained.
type Record struct {
	// Version identifies the record format.
	Version int `json:"version"`

	// RunID identifies the run that produced this record.
	RunID string `json:"runId"`

	// Mode is the organization mode of the run ("files" or "folders").
	Mode string `json:"mode"`

	// RecordedAt is when the record was written.
	RecordedAt time.Time `json:"recordedAt"`

	// Entries are ordered as the moves were applied.
	Entries []Entry `json:"entries"`
}

// NewRecord creates an empty record for the given run.
func NewRecord(runID, mode string, recordedAt time.Time) *Record {
	return &Record{
		Version:    Version,
		RunID:      runID,
		Mode:       mode,
		RecordedAt: recordedAt,
		Entries:    []Entry{},
	}
}

// Append adds one reversal entry to the record.
func (r *Record) Append(originalPath, newPath string, appliedAt time.Time) {
	r.Entries = append(r.Entries, Entry{
		OriginalPath: originalPath,
		NewPath:      newPath,
		AppliedAt:    appliedAt,
	})
}

// Len returns the number of recorded moves.
func (r *Record) Len() int {
	return len(r.Entries)
}
