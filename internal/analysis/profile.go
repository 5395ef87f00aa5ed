package analysis

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// Options controls profiling behavior.
type Options struct {
	// MaxRows limits rows profiled; 0 means unlimited.
	MaxRows int
	// SampleRows determines how many head rows to include in the report.
	SampleRows int
	// GroupBy computes per-group numeric summaries for the given column names.
	GroupBy []string
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
	// TopValues caps the category list per column.
	TopValues int
	// HistogramBins is the number of equal-width bins for numeric columns.
	HistogramBins int
}

// DefaultOptions returns reasonable defaults for dataset profiling.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		Correlations:     true,
		Outliers:         true,
		OutlierThreshold: 3.5,
		TopValues:        8,
		HistogramBins:    10,
	}
}

// Report is a markdown-friendly profile of a table.
type Report struct {
	Name      string
	Rows      int
	Processed int
	Cols      []ColumnSummary
	Samples   [][]string
	Warnings  []string
	Groups    []GroupResult
	Corr      *CorrMatrix
}

// ColumnSummary captures the type and statistics of one column.
type ColumnSummary struct {
	Name string
	Type table.Type
	// Unit parsed from headers such as "Mass [mg/L]" or "Alpha (%)".
	Unit string
	// Temporal is set for text columns whose values all parse as dates.
	Temporal bool
	NonNull  int
	Missing  int
	Unique   int
	// Numeric stats
	Min, Max, Mean, Std float64
	Q1, Median, Q3      float64
	Histogram           []Bin
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Categorical top values
	TopValues    []CategoryCount
	ExampleTexts []string
}

// MissingPct is the share of missing cells in percent.
func (c ColumnSummary) MissingPct() float64 {
	total := c.NonNull + c.Missing
	if total == 0 {
		return 0
	}
	return float64(c.Missing) * 100.0 / float64(total)
}

// CategoryCount is one entry of a column's most frequent values.
type CategoryCount struct {
	Value string
	Count int
}

// Bin is one histogram bucket, [Lo, Hi) except the last which includes Hi.
type Bin struct {
	Lo, Hi float64
	Count  int
}

// GroupResult captures aggregated metrics per group key.
type GroupResult struct {
	Key     string
	Size    int
	Metrics map[string]NumSummary // by column name
}

// NumSummary aggregates one numeric column within a group.
type NumSummary struct {
	Count          int
	Min, Max, Mean float64
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// Profile computes column summaries for t. t is not modified.
func Profile(t *table.Table, opt Options) *Report {
	rep := &Report{Name: t.Name, Rows: t.NumRows()}
	rep.Processed = rep.Rows
	if opt.MaxRows > 0 && opt.MaxRows < rep.Rows {
		rep.Processed = opt.MaxRows
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", rep.Processed, rep.Rows))
	}
	sampleRows := opt.SampleRows
	if sampleRows < 0 {
		sampleRows = 0
	}
	for i := 0; i < rep.Processed && i < sampleRows; i++ {
		row := t.Row(i)
		out := make([]string, len(row))
		for j, v := range row {
			out[j] = v.String()
		}
		rep.Samples = append(rep.Samples, out)
	}

	var numCols []int
	rep.Cols = make([]ColumnSummary, 0, t.NumCols())
	for j, c := range t.Columns {
		s := summarize(c.Values[:rep.Processed], opt)
		s.Name, s.Unit = splitUnits(c.Name)
		if s.Type == table.TypeNumeric {
			numCols = append(numCols, j)
		}
		rep.Cols = append(rep.Cols, s)
	}

	if len(opt.GroupBy) > 0 {
		rep.Groups = groupBy(t, rep.Processed, opt.GroupBy, numCols)
	}
	if opt.Correlations && len(numCols) >= 2 {
		rep.Corr = correlate(t, rep.Processed, numCols)
	}
	return rep
}

func summarize(vals []table.Value, opt Options) ColumnSummary {
	info := table.Column{Values: vals}.Info()
	s := ColumnSummary{Type: info.Type, NonNull: info.NonNull, Missing: info.Missing}

	counts := map[string]int{}
	var order []string
	var nums []float64
	var n int
	var mean, m2 float64
	s.Min, s.Max = math.Inf(1), math.Inf(-1)
	temporal := info.NonNull > 0
	for _, v := range vals {
		if v.IsMissing() {
			continue
		}
		key := v.String()
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
		if v.Kind == table.Number {
			x := v.Num
			nums = append(nums, x)
			// Welford update
			n++
			if x < s.Min {
				s.Min = x
			}
			if x > s.Max {
				s.Max = x
			}
			delta := x - mean
			mean += delta / float64(n)
			m2 += delta * (x - mean)
			temporal = false
			continue
		}
		if temporal {
			if _, ok := parseTimeMaybe(strings.TrimSpace(key)); !ok {
				temporal = false
			}
		}
		if len(s.ExampleTexts) < 3 {
			s.ExampleTexts = append(s.ExampleTexts, key)
		}
	}
	s.Unique = len(counts)

	if s.Type == table.TypeNumeric {
		s.Mean = mean
		if n > 1 {
			s.Std = math.Sqrt(m2 / float64(n-1))
		}
		sorted := append([]float64(nil), nums...)
		sort.Float64s(sorted)
		s.Q1 = quantile(sorted, 0.25)
		s.Median = quantile(sorted, 0.5)
		s.Q3 = quantile(sorted, 0.75)
		s.Histogram = histogram(sorted, opt.HistogramBins)
		s.ExampleTexts = nil
		if opt.Outliers && len(nums) >= 8 {
			thr := opt.OutlierThreshold
			if thr <= 0 {
				thr = 3.5
			}
			s.OutliersCount, s.OutliersMaxAbsZ = robustOutliers(nums, thr)
			s.OutlierThreshold = thr
		}
		return s
	}
	s.Min, s.Max = 0, 0
	s.Temporal = temporal && s.Type == table.TypeText
	s.TopValues = topValues(counts, order, opt.TopValues)
	return s
}

// topValues orders categories by count, then by first appearance.
func topValues(counts map[string]int, order []string, limit int) []CategoryCount {
	if limit <= 0 {
		limit = 8
	}
	tops := make([]CategoryCount, 0, len(order))
	for _, k := range order {
		tops = append(tops, CategoryCount{Value: k, Count: counts[k]})
	}
	sort.SliceStable(tops, func(i, j int) bool { return tops[i].Count > tops[j].Count })
	if len(tops) > limit {
		tops = tops[:limit]
	}
	return tops
}

func histogram(sorted []float64, bins int) []Bin {
	if len(sorted) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = 10
	}
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(sorted)}}
	}
	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lo = lo + float64(i)*width
		out[i].Hi = lo + float64(i+1)*width
	}
	out[bins-1].Hi = hi
	for _, x := range sorted {
		idx := int((x - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}

func robustOutliers(vals []float64, thr float64) (count int, maxAbsZ float64) {
	median, mad := medianMAD(vals)
	if mad == 0 {
		return 0, 0
	}
	for _, v := range vals {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > thr {
			count++
		}
		if az > maxAbsZ {
			maxAbsZ = az
		}
	}
	return count, maxAbsZ
}

func groupBy(t *table.Table, rows int, names []string, numCols []int) []GroupResult {
	var keyCols []int
	for _, name := range names {
		want := strings.ToLower(strings.TrimSpace(name))
		for j, c := range t.Columns {
			if strings.ToLower(c.Name) == want {
				keyCols = append(keyCols, j)
				break
			}
		}
	}
	if len(keyCols) == 0 {
		return nil
	}

	type gAcc struct {
		size int
		sum  map[int]float64
		cnt  map[int]int
		min  map[int]float64
		max  map[int]float64
	}
	groups := map[string]*gAcc{}
	for i := 0; i < rows; i++ {
		parts := make([]string, 0, len(keyCols))
		for _, j := range keyCols {
			parts = append(parts, fmt.Sprintf("%s=%s", t.Columns[j].Name, safeVal(t.Columns[j].Values[i].String())))
		}
		key := strings.Join(parts, " | ")
		ga := groups[key]
		if ga == nil {
			ga = &gAcc{sum: map[int]float64{}, cnt: map[int]int{}, min: map[int]float64{}, max: map[int]float64{}}
			groups[key] = ga
		}
		ga.size++
		for _, j := range numCols {
			v := t.Columns[j].Values[i]
			if v.Kind != table.Number {
				continue
			}
			x := v.Num
			ga.sum[j] += x
			ga.cnt[j]++
			if m, ok := ga.min[j]; !ok || x < m {
				ga.min[j] = x
			}
			if m, ok := ga.max[j]; !ok || x > m {
				ga.max[j] = x
			}
		}
	}

	out := make([]GroupResult, 0, len(groups))
	for k, ga := range groups {
		gr := GroupResult{Key: k, Size: ga.size, Metrics: map[string]NumSummary{}}
		for _, j := range numCols {
			if ga.cnt[j] == 0 {
				continue
			}
			gr.Metrics[t.Columns[j].Name] = NumSummary{Count: ga.cnt[j], Min: ga.min[j], Max: ga.max[j], Mean: ga.sum[j] / float64(ga.cnt[j])}
		}
		out = append(out, gr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size == out[j].Size {
			return out[i].Key < out[j].Key
		}
		return out[i].Size > out[j].Size
	})
	if len(out) > 20 {
		out = out[:20]
	}
	return out
}

// correlate computes pairwise Pearson r using rows where both cells are numbers.
func correlate(t *table.Table, rows int, numCols []int) *CorrMatrix {
	type pairAcc struct {
		n, sumX, sumY, sumXX, sumYY, sumXY float64
	}
	n := len(numCols)
	names := make([]string, n)
	for a, j := range numCols {
		names[a] = t.Columns[j].Name
	}
	mat := make([][]float64, n)
	for a := range mat {
		mat[a] = make([]float64, n)
		mat[a][a] = 1
	}
	for a := 0; a < n; a++ {
		xs := t.Columns[numCols[a]].Values
		for b := a + 1; b < n; b++ {
			ys := t.Columns[numCols[b]].Values
			var pa pairAcc
			for i := 0; i < rows; i++ {
				if xs[i].Kind != table.Number || ys[i].Kind != table.Number {
					continue
				}
				x, y := xs[i].Num, ys[i].Num
				pa.n++
				pa.sumX += x
				pa.sumY += y
				pa.sumXX += x * x
				pa.sumYY += y * y
				pa.sumXY += x * y
			}
			var r float64
			if pa.n >= 2 {
				denom := math.Sqrt((pa.n*pa.sumXX - pa.sumX*pa.sumX) * (pa.n*pa.sumYY - pa.sumY*pa.sumY))
				if denom != 0 {
					r = (pa.n*pa.sumXY - pa.sumX*pa.sumY) / denom
				}
			}
			r = math.Max(-1, math.Min(1, r))
			if math.IsNaN(r) || math.IsInf(r, 0) {
				r = 0
			}
			mat[a][b], mat[b][a] = r, r
		}
	}
	return &CorrMatrix{Columns: names, Values: mat}
}

// TopPairs lists off-diagonal pairs ordered by |r|, at most limit of them.
func (m *CorrMatrix) TopPairs(limit int) []PairCorr {
	if m == nil {
		return nil
	}
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

func parseTimeMaybe(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var unitPatterns = []struct {
	re   *regexp.Regexp
	pick int
}{
	{regexp.MustCompile(`^(.*)\s*\(([^)]+)\)\s*$`), 2},  // e.g., Alpha (%)
	{regexp.MustCompile(`^(.*)\s*\[([^\]]+)\]\s*$`), 2}, // e.g., Mass [mg/L]
	{regexp.MustCompile(`^(.*?)[_\s-]+(mg/L|g/L|ug/L|°[CF]|Brix|%|ppm|ppb)$`), 2},
}

func splitUnits(name string) (clean string, unit string) {
	s := strings.TrimSpace(name)
	for _, p := range unitPatterns {
		if m := p.re.FindStringSubmatch(s); len(m) >= 3 {
			base := strings.TrimSpace(m[1])
			u := strings.TrimSpace(m[p.pick])
			if base != "" && u != "" {
				return base, u
			}
		}
	}
	return s, ""
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
