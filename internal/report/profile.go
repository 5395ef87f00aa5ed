package report

import (
	"context"
	"time"

	"github.com/KaramelBytes/dataprep-cli/internal/analysis"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// ProfileFileName is the artifact written by ProfileReporter.
const ProfileFileName = "profile_report.html"

var profileTmpl = parse("profile.html.tmpl")

// ProfileReporter writes per-column statistics and a correlation matrix.
type ProfileReporter struct {
	Options  analysis.Options
	FileName string
}

// NewProfileReporter returns a ProfileReporter with default analysis options.
func NewProfileReporter() *ProfileReporter {
	return &ProfileReporter{Options: analysis.DefaultOptions(), FileName: ProfileFileName}
}

func (p *ProfileReporter) Name() string { return "Profile" }

type profileData struct {
	Title     string
	Source    string
	Generated string
	Report    *analysis.Report
	Pairs     []analysis.PairCorr
}

func (p *ProfileReporter) Generate(ctx context.Context, t *table.Table, dir string) (string, error) {
	opt := p.Options
	opt.SampleRows = 0
	rep := analysis.Profile(t, opt)
	data := profileData{
		Title:     "Profile report",
		Source:    t.Name,
		Generated: time.Now().Format(time.RFC3339),
		Report:    rep,
		Pairs:     rep.Corr.TopPairs(10),
	}
	name := p.FileName
	if name == "" {
		name = ProfileFileName
	}
	return render(ctx, p.Name(), profileTmpl, data, dir, name)
}
