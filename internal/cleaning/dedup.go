package cleaning

import "github.com/KaramelBytes/dataprep-cli/internal/table"

// Deduplicate drops rows identical to an earlier row. The first occurrence
// wins and the relative order of survivors is preserved.
func Deduplicate(t *table.Table) (*table.Table, int) {
	n := t.NumRows()
	seen := make(map[string]struct{}, n)
	keep := make([]int, 0, n)
	for i := 0; i < n; i++ {
		k := t.RowKey(i)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	return t.SelectRows(keep), n - len(keep)
}
