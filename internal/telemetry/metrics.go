package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded by a pipeline run.
type PipelineMetrics struct {
	Runs          metric.Int64Counter
	Errors        metric.Int64Counter
	StageDuration metric.Float64Histogram
	RowsLoaded    metric.Int64Counter
	RowsRemoved   metric.Int64Counter
	CellsImputed  metric.Int64Counter
	Coerced       metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runs, err := meter.Int64Counter("dataprep_runs",
		metric.WithDescription("Pipeline runs by final status"))
	if err != nil {
		return nil, err
	}
	errs, err := meter.Int64Counter("dataprep_errors",
		metric.WithDescription("Pipeline failures by error kind"))
	if err != nil {
		return nil, err
	}
	dur, err := meter.Float64Histogram("dataprep_stage_duration",
		metric.WithDescription("Stage execution time"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	loaded, err := meter.Int64Counter("dataprep_rows_loaded",
		metric.WithDescription("Rows read from input files"))
	if err != nil {
		return nil, err
	}
	removed, err := meter.Int64Counter("dataprep_rows_removed",
		metric.WithDescription("Duplicate rows dropped"))
	if err != nil {
		return nil, err
	}
	imputed, err := meter.Int64Counter("dataprep_cells_imputed",
		metric.WithDescription("Missing cells filled"))
	if err != nil {
		return nil, err
	}
	coerced, err := meter.Int64Counter("dataprep_columns_coerced",
		metric.WithDescription("Mixed-type columns converted to text"))
	if err != nil {
		return nil, err
	}
	return &PipelineMetrics{
		Runs:          runs,
		Errors:        errs,
		StageDuration: dur,
		RowsLoaded:    loaded,
		RowsRemoved:   removed,
		CellsImputed:  imputed,
		Coerced:       coerced,
	}, nil
}

// RecordStage records how long a stage took and whether it succeeded.
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.StageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

// RecordRun counts a finished run; kind is empty on success.
func (m *PipelineMetrics) RecordRun(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		m.Runs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
		return
	}
	m.Runs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "failure")))
	m.Errors.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
