// Package telemetry wires OpenTelemetry tracing and metrics for the server.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/kstonekuan/discussion-mcp/internal/config"
)

const instrumentationName = "github.com/kstonekuan/discussion-mcp"

// Providers owns the SDK tracer and meter providers for the process.
type Providers struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
}

// Option adjusts Setup. Tests use it to attach in-memory readers and processors.
type Option func(*setupOptions)

type setupOptions struct {
	traceOpts  []sdktrace.TracerProviderOption
	metricOpts []sdkmetric.Option
}

// WithSpanProcessor attaches an extra span processor.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *setupOptions) {
		o.traceOpts = append(o.traceOpts, sdktrace.WithSpanProcessor(sp))
	}
}

// WithMetricReader attaches an extra metric reader.
func WithMetricReader(r sdkmetric.Reader) Option {
	return func(o *setupOptions) {
		o.metricOpts = append(o.metricOpts, sdkmetric.WithReader(r))
	}
}

// Setup builds the providers described by cfg. Spans and metrics are
// exported over OTLP/HTTP only when an endpoint is configured.
func Setup(ctx context.Context, cfg config.TelemetryConfig, opts ...Option) (*Providers, error) {
	var so setupOptions
	for _, opt := range opts {
		opt(&so)
	}

	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))

	traceOpts := append([]sdktrace.TracerProviderOption{sdktrace.WithResource(res)}, so.traceOpts...)
	if cfg.OTLPEndpoint != "" {
		exporterOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			exporterOpts = append(exporterOpts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("create otlp trace exporter: %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(exporter))
	}

	metricOpts := append([]sdkmetric.Option{sdkmetric.WithResource(res)}, so.metricOpts...)
	if cfg.OTLPEndpoint != "" {
		exporterOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			exporterOpts = append(exporterOpts, otlpmetrichttp.WithInsecure())
		}
		exporter, err := otlpmetrichttp.New(ctx, exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("create otlp metric exporter: %w", err)
		}
		metricOpts = append(metricOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}

	return &Providers{
		TracerProvider: sdktrace.NewTracerProvider(traceOpts...),
		MeterProvider:  sdkmetric.NewMeterProvider(metricOpts...),
	}, nil
}

// Tracer returns the service tracer.
func (p *Providers) Tracer() trace.Tracer {
	return p.TracerProvider.Tracer(instrumentationName)
}

// Meter returns the service meter.
func (p *Providers) Meter() metric.Meter {
	return p.MeterProvider.Meter(instrumentationName)
}

// ToolObserver returns an observer recording into these providers.
func (p *Providers) ToolObserver() (*ToolObserver, error) {
	return NewToolObserver(p.Meter(), p.Tracer())
}

// Shutdown flushes and stops both providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.TracerProvider.Shutdown(ctx),
		p.MeterProvider.Shutdown(ctx),
	)
}
