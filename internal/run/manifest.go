// Package run records what a pipeline invocation produced.
package run

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/dataprep-cli/internal/utils"
)

const manifestFileName = "run.json"

// Manifest is persisted next to the artifacts of one run.
type Manifest struct {
	ID          string     `json:"id"`
	Input       string     `json:"input"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  time.Time  `json:"finished_at"`
	RowsLoaded  int        `json:"rows_loaded"`
	RowsWritten int        `json:"rows_written"`
	Columns     int        `json:"columns"`
	Stats       Stats      `json:"stats"`
	Artifacts   []Artifact `json:"artifacts"`

	// Not serialized: directory holding run.json
	dir string `json:"-"`
}

// Stats summarises the cleaning passes.
type Stats struct {
	DuplicatesRemoved int      `json:"duplicates_removed"`
	RowsCollapsed     int      `json:"rows_collapsed"`
	ImputedColumns    []string `json:"imputed_columns"`
	CoercedColumns    []string `json:"coerced_columns"`
}

// Artifact is one file written by the run.
type Artifact struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// NewID returns a fresh run identifier.
func NewID() string { return uuid.NewString() }

// New constructs an in-memory manifest rooted at dir. Call Save() to persist.
func New(id, input, dir string) *Manifest {
	if id == "" {
		id = NewID()
	}
	return &Manifest{ID: id, Input: input, StartedAt: time.Now(), dir: dir}
}

// Dir returns the directory the manifest is saved in.
func (m *Manifest) Dir() string { return m.dir }

// AddArtifact appends an artifact entry.
func (m *Manifest) AddArtifact(kind, path string) {
	m.Artifacts = append(m.Artifacts, Artifact{Kind: kind, Path: path})
}

// Save writes run.json atomically.
func (m *Manifest) Save() error {
	if m.dir == "" {
		return errors.New("run directory not set")
	}
	if err := utils.EnsureDir(m.dir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	if m.FinishedAt.IsZero() {
		m.FinishedAt = time.Now()
	}
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(m.dir, manifestFileName), data)
}

// Load reads run.json from dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("run not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read run: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse run: %w", err)
	}
	m.dir = dir
	return &m, nil
}

// List loads the manifest in root (if any) and in each of its immediate
// subdirectories, newest first. Directories without run.json are skipped.
func List(root string) ([]*Manifest, error) {
	var out []*Manifest
	if m, err := Load(root); err == nil {
		out = append(out, m)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return nil, fmt.Errorf("list runs: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m, err := Load(filepath.Join(root, e.Name()))
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}
