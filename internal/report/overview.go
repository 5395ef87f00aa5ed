package report

import (
	"context"
	"time"

	"github.com/KaramelBytes/dataprep-cli/internal/analysis"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// OverviewFileName is the artifact written by OverviewReporter.
const OverviewFileName = "overview_report.html"

var overviewTmpl = parse("overview.html.tmpl")

// OverviewReporter writes dataset shape, a head sample and value distributions.
type OverviewReporter struct {
	HeadRows      int
	HistogramBins int
	FileName      string
}

// NewOverviewReporter returns an OverviewReporter with default head and bin sizes.
func NewOverviewReporter() *OverviewReporter {
	return &OverviewReporter{HeadRows: 10, HistogramBins: 10, FileName: OverviewFileName}
}

func (o *OverviewReporter) Name() string { return "Overview" }

type typeCount struct {
	Type  table.Type
	Count int
}

type overviewData struct {
	Title      string
	Source     string
	Generated  string
	Rows       int
	NumCols    int
	TypeCounts []typeCount
	Header     []string
	Head       [][]string
	Columns    []analysis.ColumnSummary
}

func (o *OverviewReporter) Generate(ctx context.Context, t *table.Table, dir string) (string, error) {
	opt := analysis.DefaultOptions()
	opt.SampleRows = o.HeadRows
	opt.HistogramBins = o.HistogramBins
	opt.Correlations = false
	opt.Outliers = false
	rep := analysis.Profile(t, opt)

	data := overviewData{
		Title:     "Overview report",
		Source:    t.Name,
		Generated: time.Now().Format(time.RFC3339),
		Rows:      t.NumRows(),
		NumCols:   t.NumCols(),
		Header:    t.Header(),
		Head:      rep.Samples,
		Columns:   rep.Cols,
	}
	counts := map[table.Type]int{}
	for _, info := range t.Describe() {
		counts[info.Type]++
	}
	for _, ty := range []table.Type{table.TypeNumeric, table.TypeText, table.TypeMixed, table.TypeEmpty} {
		if counts[ty] > 0 {
			data.TypeCounts = append(data.TypeCounts, typeCount{Type: ty, Count: counts[ty]})
		}
	}
	name := o.FileName
	if name == "" {
		name = OverviewFileName
	}
	return render(ctx, o.Name(), overviewTmpl, data, dir, name)
}
