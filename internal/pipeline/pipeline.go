// Package pipeline runs load, clean, persist and report for one input file.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KaramelBytes/dataprep-cli/internal/cleaning"
	"github.com/KaramelBytes/dataprep-cli/internal/loader"
	"github.com/KaramelBytes/dataprep-cli/internal/persist"
	"github.com/KaramelBytes/dataprep-cli/internal/report"
	"github.com/KaramelBytes/dataprep-cli/internal/run"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
	"github.com/KaramelBytes/dataprep-cli/internal/telemetry"
)

// Input describes one file to process.
type Input struct {
	// Path is read when Reader is nil.
	Path string
	// Reader supplies the bytes directly; Name then carries the filename.
	Reader io.Reader
	Name   string
	// OutputDir receives the cleaned CSV, reports and run.json.
	OutputDir string
	// Session writes into OutputDir/<run-id> instead of OutputDir.
	Session bool
	// CleanedFile overrides persist.DefaultFileName.
	CleanedFile string
	Loader      loader.Options
}

func (in Input) name() string {
	if in.Name != "" {
		return in.Name
	}
	return in.Path
}

// Artifact is a file produced by a reporter.
type Artifact struct {
	Reporter string
	Path     string
}

// Outcome is what a successful run produced.
type Outcome struct {
	RunID       string
	Dir         string
	Loaded      *table.Table
	Result      *cleaning.Result
	CleanedPath string
	Reports     []Artifact
	Manifest    *run.Manifest
}

// Runner executes the pipeline. The zero value runs without reports, logs to
// slog.Default and discards status lines.
type Runner struct {
	Reporters []report.Reporter
	Notifier  Notifier
	Logger    *slog.Logger
	Tracer    trace.Tracer
	Metrics   *telemetry.PipelineMetrics
	// HeadRows caps the head printed after loading; 0 means 5.
	HeadRows int
	// SkipManifest disables run.json.
	SkipManifest bool
}

// NewRunner returns a Runner with the default reporters.
func NewRunner(n Notifier, logger *slog.Logger) *Runner {
	return &Runner{Reporters: report.Defaults(), Notifier: n, Logger: logger}
}

func (r *Runner) notify(format string, args ...any) {
	n := r.Notifier
	if n == nil {
		n = discard{}
	}
	n.Notify(fmt.Sprintf(format, args...))
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Runner) tracer() trace.Tracer {
	if r.Tracer != nil {
		return r.Tracer
	}
	return otel.Tracer(telemetry.ScopeName)
}

// Run processes in. On failure it emits "An error occurred: ..." and returns
// the stage error unchanged so callers can classify it with KindOf.
func (r *Runner) Run(ctx context.Context, in Input) (*Outcome, error) {
	ctx, span := r.tracer().Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("input", in.name())))
	defer span.End()

	out, err := r.run(ctx, in)
	if err != nil {
		kind := KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.kind", string(kind)))
		r.Metrics.RecordRun(ctx, string(kind))
		r.logger().Error("pipeline failed",
			slog.String("input", in.name()),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
		r.notify("An error occurred: %v", err)
		return nil, err
	}
	span.SetAttributes(attribute.String("run.id", out.RunID))
	r.Metrics.RecordRun(ctx, "")
	return out, nil
}

func (r *Runner) run(ctx context.Context, in Input) (*Outcome, error) {
	if in.Reader == nil && in.Path == "" {
		return nil, errors.New("no input file given")
	}
	log := r.logger()
	out := &Outcome{RunID: run.NewID(), Dir: in.OutputDir}
	if out.Dir == "" {
		out.Dir = "."
	}
	if in.Session {
		out.Dir = filepath.Join(out.Dir, out.RunID)
	}
	manifest := run.New(out.RunID, filepath.Base(in.name()), out.Dir)
	lopt := in.Loader
	if lopt.Logger == nil {
		lopt.Logger = log
	}

	// Load
	err := r.stage(ctx, "load", func(ctx context.Context) error {
		var err error
		if in.Reader != nil {
			out.Loaded, err = loader.Load(in.Reader, in.name(), lopt)
		} else {
			out.Loaded, err = loader.LoadFile(in.Path, lopt)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	r.notify("Data loaded successfully!")
	r.describe(out.Loaded)
	if r.Metrics != nil {
		r.Metrics.RowsLoaded.Add(ctx, int64(out.Loaded.NumRows()))
	}

	// Clean
	err = r.stage(ctx, "clean", func(ctx context.Context) error {
		var err error
		out.Result, err = cleaning.CleanWithHooks(out.Loaded, cleaning.Hooks{
			Deduplicated: func(n int) { r.notify("Removed %d duplicate rows.", n) },
			Imputed: func(fills []cleaning.Imputation) {
				for _, f := range fills {
					r.notify("Filled %d missing values in %s with %s %s.", f.Filled, f.Column, f.Strategy, f.Value.String())
				}
				r.notify("Missing values handled.")
			},
			Normalized: func(coerced []string) {
				for _, c := range coerced {
					r.notify("Column %s has mixed types. Converting to strings for consistency.", c)
				}
			},
			Collapsed: func(n int) {
				if n > 0 {
					r.notify("Collapsed %d rows that became duplicates after cleaning.", n)
				}
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	res := out.Result
	if r.Metrics != nil {
		filled := 0
		for _, f := range res.Imputed {
			filled += f.Filled
		}
		r.Metrics.RowsRemoved.Add(ctx, int64(res.RowsRemoved+res.RowsCollapsed))
		r.Metrics.CellsImputed.Add(ctx, int64(filled))
		r.Metrics.Coerced.Add(ctx, int64(len(res.Coerced)))
	}
	log.Info("table cleaned",
		slog.Int("rows_in", out.Loaded.NumRows()),
		slog.Int("rows_out", res.Table.NumRows()),
		slog.Int("duplicates", res.RowsRemoved),
		slog.Int("collapsed", res.RowsCollapsed),
		slog.Int("imputed_columns", len(res.Imputed)),
		slog.Int("coerced_columns", len(res.Coerced)))

	// Persist
	name := in.CleanedFile
	if name == "" {
		name = persist.DefaultFileName
	}
	out.CleanedPath = filepath.Join(out.Dir, name)
	err = r.stage(ctx, "persist", func(ctx context.Context) error {
		return persist.WriteCSV(out.CleanedPath, res.Table)
	})
	if err != nil {
		return nil, err
	}
	r.notify("Cleaned data saved to %s.", out.CleanedPath)
	manifest.AddArtifact("cleaned_csv", out.CleanedPath)

	// Reports
	for _, rep := range r.Reporters {
		var path string
		err = r.stage(ctx, "report."+strings.ToLower(rep.Name()), func(ctx context.Context) error {
			var err error
			path, err = rep.Generate(ctx, res.Table.Clone(), out.Dir)
			return err
		})
		if err != nil {
			return nil, err
		}
		r.notify("%s report generated: %s", rep.Name(), path)
		out.Reports = append(out.Reports, Artifact{Reporter: rep.Name(), Path: path})
		manifest.AddArtifact(strings.ToLower(rep.Name())+"_report", path)
	}

	manifest.RowsLoaded = out.Loaded.NumRows()
	manifest.RowsWritten = res.Table.NumRows()
	manifest.Columns = res.Table.NumCols()
	manifest.Stats = run.Stats{
		DuplicatesRemoved: res.RowsRemoved,
		RowsCollapsed:     res.RowsCollapsed,
		ImputedColumns:    res.ImputedColumns(),
		CoercedColumns:    res.Coerced,
	}
	if !r.SkipManifest {
		if err := manifest.Save(); err != nil {
			return nil, &persist.WriteError{Path: filepath.Join(out.Dir, "run.json"), Err: err}
		}
		out.Manifest = manifest
	}
	log.Debug("run finished", slog.String("run_id", out.RunID), slog.String("dir", out.Dir))
	return out, nil
}

// stage wraps fn in a span and records its duration.
func (r *Runner) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := r.tracer().Start(ctx, "pipeline."+name)
	defer span.End()
	start := time.Now()
	err := fn(ctx)
	r.Metrics.RecordStage(ctx, name, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// describe emits the dataset info block and the head.
func (r *Runner) describe(t *table.Table) {
	r.notify("Dataset info: %d rows x %d columns", t.NumRows(), t.NumCols())
	for _, c := range t.Describe() {
		r.notify("- %s: %s, %d non-null, %d missing", c.Name, c.Type, c.NonNull, c.Missing)
	}
	head := r.HeadRows
	if head <= 0 {
		head = 5
	}
	if head > t.NumRows() {
		head = t.NumRows()
	}
	r.notify("Dataset head:")
	r.notify("%s", strings.Join(t.Header(), " | "))
	for i := 0; i < head; i++ {
		row := t.Row(i)
		cells := make([]string, len(row))
		for j, v := range row {
			if v.IsMissing() {
				cells[j] = "<NA>"
			} else {
				cells[j] = v.String()
			}
		}
		r.notify("%s", strings.Join(cells, " | "))
	}
}
