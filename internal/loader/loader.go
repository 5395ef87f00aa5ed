// Package loader decodes uploaded tabular files into a table.Table.
package loader

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// Parser decodes one file format.
type Parser interface {
	CanParse(filename string) bool
	Format() string
	Parse(content []byte, name string, opt Options) (*table.Table, error)
}

// Options tunes decoding. The zero value is usable.
type Options struct {
	// Delimiter for CSV; 0 means ','.
	Delimiter rune
	// SheetName selects an XLSX sheet by name (case-insensitive).
	SheetName string
	// SheetIndex is a 1-based XLSX sheet index used when SheetName is empty.
	SheetIndex int
	// MissingTokens overrides table.DefaultMissingTokens when non-nil.
	MissingTokens []string
	Logger        *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// Load selects a parser by filename extension and decodes r into a Table.
func Load(r io.Reader, filename string, opt Options) (*table.Table, error) {
	p := lookup(filename)
	if p == nil {
		return nil, &UnsupportedFormatError{Filename: filename, Ext: strings.ToLower(filepath.Ext(filename))}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Filename: filename, Format: p.Format(), Err: fmt.Errorf("read input: %w", err)}
	}
	name := filepath.Base(filename)
	t, err := p.Parse(data, name, opt)
	if err != nil {
		return nil, &ParseError{Filename: name, Format: p.Format(), Err: err}
	}
	opt.logger().Debug("table loaded",
		slog.String("file", name),
		slog.String("format", p.Format()),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumCols()))
	return t, nil
}

// LoadFile opens path and calls Load.
func LoadFile(path string, opt Options) (*table.Table, error) {
	// Check the extension first so unsupported files are rejected without I/O.
	if lookup(path) == nil {
		return nil, &UnsupportedFormatError{Filename: path, Ext: strings.ToLower(filepath.Ext(path))}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Load(bytes.NewReader(data), path, opt)
}

// Supported reports whether a parser is registered for filename.
func Supported(filename string) bool { return lookup(filename) != nil }

func lookup(filename string) Parser {
	for _, p := range registry {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// headerFrom trims and validates header cells.
func headerFrom(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, table.ErrNoColumns
	}
	out := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		out[i] = h
	}
	return out, nil
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
}
