// Package cleaning turns a loaded table into its canonical cleaned form:
// duplicates removed, missing cells imputed and mixed-type columns coerced
// to text. Every pass returns a new table and leaves its input untouched.
package cleaning

import (
	"fmt"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// Result is the cleaned table plus what each pass did.
type Result struct {
	Table *table.Table
	// RowsRemoved counts exact duplicates dropped before imputation.
	RowsRemoved int
	// RowsCollapsed counts rows that only became duplicates once their
	// missing cells were filled or their column was coerced to text.
	RowsCollapsed int
	Imputed       []Imputation
	Coerced       []string
}

// Hooks observe each pass as it completes. Nil fields are skipped.
type Hooks struct {
	Deduplicated func(removed int)
	Imputed      func(fills []Imputation)
	Normalized   func(coerced []string)
	Collapsed    func(collapsed int)
}

// Clean runs deduplication, imputation and mixed-type normalization in order,
// then drops rows those passes made identical so that cleaning is idempotent.
func Clean(t *table.Table) (*Result, error) {
	return CleanWithHooks(t, Hooks{})
}

// CleanWithHooks is Clean with per-pass callbacks. A failing pass stops the
// run before later hooks fire.
func CleanWithHooks(t *table.Table, h Hooks) (*Result, error) {
	if t == nil {
		return nil, fmt.Errorf("clean: nil table")
	}
	deduped, removed := Deduplicate(t)
	if h.Deduplicated != nil {
		h.Deduplicated(removed)
	}

	imputed, fills, err := Impute(deduped)
	if err != nil {
		return nil, err
	}
	if h.Imputed != nil {
		h.Imputed(fills)
	}

	normalized, coerced := NormalizeMixed(imputed)
	if h.Normalized != nil {
		h.Normalized(coerced)
	}

	collapsed := 0
	if len(fills) > 0 || len(coerced) > 0 {
		normalized, collapsed = Deduplicate(normalized)
	}
	if h.Collapsed != nil {
		h.Collapsed(collapsed)
	}
	return &Result{
		Table:         normalized,
		RowsRemoved:   removed,
		RowsCollapsed: collapsed,
		Imputed:       fills,
		Coerced:       coerced,
	}, nil
}

// ImputedColumns lists the names of the columns that received fills.
func (r *Result) ImputedColumns() []string {
	out := make([]string, len(r.Imputed))
	for i, im := range r.Imputed {
		out[i] = im.Column
	}
	return out
}
