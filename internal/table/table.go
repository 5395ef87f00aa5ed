// Package table holds the in-memory tabular model shared by the loader,
// cleaner, persister and reporters.
package table

import (
	"errors"
	"fmt"
	"strings"
)

// Type is the semantic type of a whole column.
type Type string

const (
	TypeEmpty   Type = "empty"
	TypeNumeric Type = "numeric"
	TypeText    Type = "text"
	TypeMixed   Type = "mixed"
)

// Column is a named sequence of cells.
type Column struct {
	Name   string
	Values []Value
}

// Table is an ordered set of equally long columns. Operations in this module
// treat a Table as immutable and return new tables.
type Table struct {
	Name    string
	Columns []Column
}

// ColumnInfo describes a column. It is derived, never stored.
type ColumnInfo struct {
	Name    string
	Type    Type
	NonNull int
	Missing int
}

// New validates the columns and builds a Table.
func New(name string, cols []Column) (*Table, error) {
	seen := make(map[string]struct{}, len(cols))
	rows := -1
	for i, c := range cols {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("column %d has an empty name", i+1)
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		if rows >= 0 && len(c.Values) != rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, len(c.Values), rows)
		}
		rows = len(c.Values)
	}
	return &Table{Name: name, Columns: cols}, nil
}

// FromRows builds a Table from a header and row-major cells.
func FromRows(name string, header []string, rows [][]Value) (*Table, error) {
	cols := make([]Column, len(header))
	for j, h := range header {
		cols[j] = Column{Name: h, Values: make([]Value, len(rows))}
	}
	for i, r := range rows {
		if len(r) != len(header) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i+1, len(r), len(header))
		}
		for j := range header {
			cols[j].Values[i] = r[j]
		}
	}
	return New(name, cols)
}

// NumRows returns the number of records.
func (t *Table) NumRows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// Header returns the column names in order.
func (t *Table) Header() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = c.Values[i]
	}
	return out
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	cols := make([]Column, len(t.Columns))
	for i, c := range t.Columns {
		vals := make([]Value, len(c.Values))
		copy(vals, c.Values)
		cols[i] = Column{Name: c.Name, Values: vals}
	}
	return &Table{Name: t.Name, Columns: cols}
}

// SelectRows returns a new table holding only the given row indexes, in order.
func (t *Table) SelectRows(idx []int) *Table {
	cols := make([]Column, len(t.Columns))
	for j, c := range t.Columns {
		vals := make([]Value, len(idx))
		for k, i := range idx {
			vals[k] = c.Values[i]
		}
		cols[j] = Column{Name: c.Name, Values: vals}
	}
	return &Table{Name: t.Name, Columns: cols}
}

// WithColumn returns a shallow copy of t where column j is replaced.
func (t *Table) WithColumn(j int, c Column) *Table {
	cols := make([]Column, len(t.Columns))
	copy(cols, t.Columns)
	cols[j] = c
	return &Table{Name: t.Name, Columns: cols}
}

// RowKey returns a string identifying the row's cells by kind and value.
func (t *Table) RowKey(i int) string {
	var b strings.Builder
	for j, c := range t.Columns {
		if j > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(c.Values[i].Key())
	}
	return b.String()
}

// Info derives the descriptor of a column.
func (c Column) Info() ColumnInfo {
	info := ColumnInfo{Name: c.Name}
	var nums, texts int
	for _, v := range c.Values {
		switch v.Kind {
		case Missing:
			info.Missing++
		case Number:
			nums++
		case Text:
			texts++
		}
	}
	info.NonNull = nums + texts
	switch {
	case nums > 0 && texts > 0:
		info.Type = TypeMixed
	case nums > 0:
		info.Type = TypeNumeric
	case texts > 0:
		info.Type = TypeText
	default:
		info.Type = TypeEmpty
	}
	return info
}

// Describe returns descriptors for every column.
func (t *Table) Describe() []ColumnInfo {
	out := make([]ColumnInfo, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Info()
	}
	return out
}

// MissingCount totals missing cells across the table.
func (t *Table) MissingCount() int {
	n := 0
	for _, c := range t.Columns {
		for _, v := range c.Values {
			if v.IsMissing() {
				n++
			}
		}
	}
	return n
}

// Equal reports whether two tables have the same columns and cells.
func (t *Table) Equal(o *Table) bool {
	if t.NumCols() != o.NumCols() || t.NumRows() != o.NumRows() {
		return false
	}
	for j, c := range t.Columns {
		oc := o.Columns[j]
		if c.Name != oc.Name {
			return false
		}
		for i, v := range c.Values {
			if !v.Equal(oc.Values[i]) {
				return false
			}
		}
	}
	return true
}

// Records renders the table as string rows, header excluded.
func (t *Table) Records() [][]string {
	n := t.NumRows()
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		rec := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			rec[j] = c.Values[i].String()
		}
		out[i] = rec
	}
	return out
}

// ErrNoColumns is returned when a source has no header.
var ErrNoColumns = errors.New("table has no columns")
