package cleaning

import "github.com/KaramelBytes/dataprep-cli/internal/table"

// NormalizeMixed converts every cell of a mixed-type column to text, keeping
// each cell's original spelling. It returns the names of the affected columns.
func NormalizeMixed(t *table.Table) (*table.Table, []string) {
	out := t
	var coerced []string
	for j, c := range t.Columns {
		if c.Info().Type != table.TypeMixed {
			continue
		}
		vals := make([]table.Value, len(c.Values))
		for i, v := range c.Values {
			if v.IsMissing() {
				vals[i] = v
				continue
			}
			vals[i] = table.TextValue(v.Raw)
		}
		out = out.WithColumn(j, table.Column{Name: c.Name, Values: vals})
		coerced = append(coerced, c.Name)
	}
	return out, coerced
}
