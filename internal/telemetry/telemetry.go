// Package telemetry wires OpenTelemetry tracing and metrics for CLI runs.
//
// Spans go to an optional JSON trace file through the stdout exporter. Metrics
// are collected into a private Prometheus registry and, when a metrics file is
// configured, dumped in text exposition format at shutdown.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServiceName = "dataprep"
	ScopeName   = "github.com/KaramelBytes/dataprep-cli"
)

// Config holds telemetry destinations. Empty paths disable the export but
// keep the providers usable.
type Config struct {
	ServiceVersion string
	TraceFile      string
	MetricsFile    string
}

// Providers bundles the SDK providers created by Init.
type Providers struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *prometheus.Registry

	metricsFile string
	traceOut    io.Closer
	logger      *slog.Logger
}

// Init builds tracer and meter providers for cfg.
func Init(cfg Config, logger *slog.Logger) (*Providers, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "dev"
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	)
	p := &Providers{metricsFile: cfg.MetricsFile, logger: logger}

	topts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if cfg.TraceFile != "" {
		f, err := os.Create(cfg.TraceFile)
		if err != nil {
			return nil, fmt.Errorf("open trace file: %w", err)
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create trace exporter: %w", err)
		}
		p.traceOut = f
		topts = append(topts, sdktrace.WithSyncer(exp))
	}
	p.TracerProvider = sdktrace.NewTracerProvider(topts...)
	p.Tracer = p.TracerProvider.Tracer(ScopeName, trace.WithInstrumentationVersion(cfg.ServiceVersion))

	p.Registry = prometheus.NewRegistry()
	exp, err := otelprom.New(otelprom.WithRegisterer(p.Registry))
	if err != nil {
		p.closeTraceOut()
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	p.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exp),
	)
	p.Meter = p.MeterProvider.Meter(ScopeName, metric.WithInstrumentationVersion(cfg.ServiceVersion))

	logger.Debug("telemetry initialized",
		slog.String("trace_file", cfg.TraceFile),
		slog.String("metrics_file", cfg.MetricsFile))
	return p, nil
}

// Shutdown writes the metrics file, flushes spans and releases files.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	// Gather before the meter provider shuts its reader down.
	if p.metricsFile != "" {
		if err := prometheus.WriteToTextfile(p.metricsFile, p.Registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics file: %w", err))
		}
	}
	if err := p.TracerProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
	}
	if err := p.MeterProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
	}
	p.closeTraceOut()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	p.logger.Debug("telemetry shutdown complete")
	return nil
}

func (p *Providers) closeTraceOut() {
	if p.traceOut != nil {
		_ = p.traceOut.Close()
		p.traceOut = nil
	}
}
