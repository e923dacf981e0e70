package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/vango-dev/widgetkit/pkg/component"
	"github.com/vango-dev/widgetkit/pkg/fastdom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "widgetkit"

// TracingConfig configures span export.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "widgetkit").
	TracerName string

	// Provider is the tracer provider.
	// Default: the global OpenTelemetry provider.
	Provider trace.TracerProvider

	// SkipIdleHooks drops spans for hooks that succeeded.
	SkipIdleHooks bool
}

// TracingOption configures Tracing.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = tp
	}
}

// WithSkipIdleHooks drops spans for hooks that succeeded.
func WithSkipIdleHooks(skip bool) TracingOption {
	return func(c *TracingConfig) {
		c.SkipIdleHooks = skip
	}
}

// Tracing records ticks, passes and hook runs as spans. Spans are
// reconstructed after the fact from the reported timings.
type Tracing struct {
	config TracingConfig
	tracer trace.Tracer
}

var (
	_ fastdom.Observer   = (*Tracing)(nil)
	_ component.Reporter = (*Tracing)(nil)
)

// NewTracing resolves the tracer and returns the recorder.
func NewTracing(opts ...TracingOption) *Tracing {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	return &Tracing{
		config: config,
		tracer: config.Provider.Tracer(config.TracerName),
	}
}

// ObserveFlush records a span covering one tick.
func (t *Tracing) ObserveFlush(ctx context.Context, stats fastdom.FlushStats) {
	_, span := t.tracer.Start(ctx, "fastdom.flush",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(stats.Start),
		trace.WithAttributes(
			attribute.Int64("fastdom.frame", int64(stats.Frame)),
			attribute.Int("fastdom.reads", stats.Reads),
			attribute.Int("fastdom.writes", stats.Writes),
			attribute.Int("fastdom.errors", stats.Errors),
		),
	)
	if stats.Errors > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d task(s) failed", stats.Errors))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(stats.Start.Add(stats.Duration)))
}

// ReportPass records a span covering one component pass.
func (t *Tracing) ReportPass(r component.PassReport) {
	end := time.Now()
	start := end.Add(-r.Duration)

	attrs := []attribute.KeyValue{
		attribute.String("widgetkit.component", r.Component),
		attribute.String("widgetkit.instance", r.Instance),
		attribute.Int("widgetkit.ran", r.Ran),
	}
	switch r.Kind {
	case component.PassUpdate:
		attrs = append(attrs,
			attribute.StringSlice("widgetkit.events", r.Events),
			attribute.Int("widgetkit.writes", r.Writes),
		)
	case component.PassWatch:
		attrs = append(attrs, attribute.Bool("widgetkit.initial", r.Initial))
	}

	_, span := t.tracer.Start(context.Background(), fmt.Sprintf("widgetkit.%s", r.Kind),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(start),
		trace.WithAttributes(attrs...),
	)
	finish(span, r.Err)
	span.End(trace.WithTimestamp(end))
}

// ReportHook records a span for one hook run.
func (t *Tracing) ReportHook(name string, hook component.HookName, err error) {
	if err == nil && t.config.SkipIdleHooks {
		return
	}
	_, span := t.tracer.Start(context.Background(), fmt.Sprintf("widgetkit.hook.%s", hook),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("widgetkit.component", name)),
	)
	finish(span, err)
	span.End()
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
