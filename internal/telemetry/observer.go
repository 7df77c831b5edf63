package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kstonekuan/discussion-mcp/internal/tool"
)

// ToolObserver records tool invocation signals into OpenTelemetry.
type ToolObserver struct {
	tracer trace.Tracer

	invocations metric.Int64Counter
	latency     metric.Float64Histogram
}

// NewToolObserver creates a tool observer bound to the provided meter/tracer.
// A nil tracer disables spans.
func NewToolObserver(meter metric.Meter, tracer trace.Tracer) (*ToolObserver, error) {
	invocations, err := meter.Int64Counter(
		"discussion_mcp.tool.invocations",
		metric.WithDescription("Number of tool invocations"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		"discussion_mcp.tool.latency",
		metric.WithDescription("Tool latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &ToolObserver{
		tracer:      tracer,
		invocations: invocations,
		latency:     latency,
	}, nil
}

// ObserveInvoke records one invocation result.
func (o *ToolObserver) ObserveInvoke(ctx context.Context, observation tool.Observation) {
	if o == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("tool_name", observation.Tool),
		attribute.Bool("success", observation.Success),
	}
	if observation.ErrorCode != "" {
		attrs = append(attrs, attribute.String("error_code", observation.ErrorCode))
	}

	// Metrics outlive a cancelled request.
	mctx := context.WithoutCancel(ctx)
	options := metric.WithAttributes(attrs...)
	o.invocations.Add(mctx, 1, options)
	o.latency.Record(mctx, observation.Duration.Seconds(), options)

	if o.tracer == nil {
		return
	}
	// The span covers the invocation itself, which has already finished.
	start := observation.Start
	if start.IsZero() {
		start = time.Now().Add(-observation.Duration)
	}
	_, span := o.tracer.Start(mctx, "tool.invoke",
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(start),
	)
	if !observation.Success {
		span.SetStatus(codes.Error, observation.ErrorCode)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(start.Add(observation.Duration)))
}

var _ tool.Observer = (*ToolObserver)(nil)
