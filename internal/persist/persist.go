// Package persist writes cleaned tables to durable storage.
package persist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
	"github.com/KaramelBytes/dataprep-cli/internal/utils"
)

// DefaultFileName is the artifact name used when callers only pick a directory.
const DefaultFileName = "cleaned_data.csv"

// ErrWrite matches WriteError via errors.Is.
var ErrWrite = errors.New("write failed")

// WriteError wraps an I/O failure while saving the cleaned table.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// WriteCSV serializes t as UTF-8 CSV with a header row, replacing any file
// already at path. Missing cells are written as empty fields.
func WriteCSV(path string, t *table.Table) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	err := utils.SafeWrite(path, func(w io.Writer) error {
		return Encode(w, t)
	})
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// Encode writes t as CSV to w.
func Encode(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range t.Records() {
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write record %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
