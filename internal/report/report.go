// Package report renders cleaned tables into self-contained HTML documents.
package report

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"math"
	"path/filepath"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
	"github.com/KaramelBytes/dataprep-cli/internal/utils"
)

// Reporter produces one artifact from a cleaned table and returns its path.
type Reporter interface {
	Name() string
	Generate(ctx context.Context, t *table.Table, dir string) (string, error)
}

// ErrReport matches ReportError via errors.Is.
var ErrReport = errors.New("report generation failed")

// ReportError wraps a failure inside a reporter.
type ReportError struct {
	Reporter string
	Path     string
	Err      error
}

func (e *ReportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s report: %v", e.Reporter, e.Err)
	}
	return fmt.Sprintf("%s report %s: %v", e.Reporter, e.Path, e.Err)
}

func (e *ReportError) Unwrap() error { return e.Err }

func (e *ReportError) Is(target error) bool { return target == ErrReport }

// Defaults returns the standard reporter set in generation order.
func Defaults() []Reporter {
	return []Reporter{NewProfileReporter(), NewOverviewReporter()}
}

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"num": func(f float64) string {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "-"
		}
		return fmt.Sprintf("%.4g", f)
	},
	"pct": func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
	// share scales count against total to a 0-100 bar width.
	"share": func(count, total int) int {
		if total <= 0 {
			return 0
		}
		return int(math.Round(float64(count) * 100 / float64(total)))
	},
	// heat maps a correlation to a background colour.
	"heat": func(r float64) template.CSS {
		a := math.Min(1, math.Abs(r))
		if r >= 0 {
			return template.CSS(fmt.Sprintf("background: rgba(46, 125, 50, %.2f)", a))
		}
		return template.CSS(fmt.Sprintf("background: rgba(198, 40, 40, %.2f)", a))
	},
}

func parse(name string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html.tmpl", "templates/"+name))
}

// render writes the named template to dir/file atomically.
func render(ctx context.Context, reporter string, tmpl *template.Template, data any, dir, file string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ReportError{Reporter: reporter, Err: err}
	}
	path := filepath.Join(dir, file)
	if err := utils.EnsureDir(dir); err != nil {
		return "", &ReportError{Reporter: reporter, Path: path, Err: err}
	}
	err := utils.SafeWrite(path, func(w io.Writer) error {
		return tmpl.ExecuteTemplate(w, "base", data)
	})
	if err != nil {
		return "", &ReportError{Reporter: reporter, Path: path, Err: err}
	}
	return path, nil
}
