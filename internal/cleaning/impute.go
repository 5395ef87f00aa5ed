package cleaning

import (
	"sort"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// Strategy names how a fill value was chosen.
type Strategy string

const (
	StrategyMedian Strategy = "median"
	StrategyMode   Strategy = "mode"
)

// Imputation records the fill applied to one column.
type Imputation struct {
	Column   string
	Strategy Strategy
	Value    table.Value
	Filled   int
}

// Impute fills missing cells column by column. Numeric columns take the
// median of their present values; text and mixed columns take the most
// frequent value, ties going to the value seen first.
func Impute(t *table.Table) (*table.Table, []Imputation, error) {
	out := t
	var applied []Imputation
	for j, c := range t.Columns {
		info := c.Info()
		if info.Missing == 0 {
			continue
		}
		var fill table.Value
		var strategy Strategy
		switch info.Type {
		case table.TypeEmpty:
			return nil, nil, &ImputationError{Column: c.Name, Reason: "every value is missing, so there is no median or mode"}
		case table.TypeNumeric:
			fill, strategy = table.NumberValue(median(c.Values)), StrategyMedian
		default:
			fill, strategy = mode(c.Values), StrategyMode
		}
		vals := make([]table.Value, len(c.Values))
		for i, v := range c.Values {
			if v.IsMissing() {
				vals[i] = fill
			} else {
				vals[i] = v
			}
		}
		out = out.WithColumn(j, table.Column{Name: c.Name, Values: vals})
		applied = append(applied, Imputation{Column: c.Name, Strategy: strategy, Value: fill, Filled: info.Missing})
	}
	return out, applied, nil
}

// median of the numeric cells; callers guarantee at least one.
func median(vals []table.Value) float64 {
	nums := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v.Kind == table.Number {
			nums = append(nums, v.Num)
		}
	}
	sort.Float64s(nums)
	n := len(nums)
	if n%2 == 1 {
		return nums[n/2]
	}
	// halve first so values near MaxFloat64 do not overflow
	return nums[n/2-1]/2 + nums[n/2]/2
}

// mode of the present cells; callers guarantee at least one.
func mode(vals []table.Value) table.Value {
	type entry struct {
		v     table.Value
		count int
	}
	counts := map[string]*entry{}
	var order []*entry
	for _, v := range vals {
		if v.IsMissing() {
			continue
		}
		k := v.Key()
		e, ok := counts[k]
		if !ok {
			e = &entry{v: v}
			counts[k] = e
			order = append(order, e)
		}
		e.count++
	}
	best := order[0]
	for _, e := range order[1:] {
		if e.count > best.count {
			best = e
		}
	}
	return best.v
}
