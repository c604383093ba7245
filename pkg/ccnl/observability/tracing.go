package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("ccnl")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartRenderSpan starts a span for rendering one document.
	StartRenderSpan(ctx context.Context, templateID string) (context.Context, trace.Span)

	// StartCompareSpan starts a span for a cost comparison.
	StartCompareSpan(ctx context.Context, codeA, codeB string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartRenderSpan starts a span for rendering one document.
func (m *otelSpanManager) StartRenderSpan(ctx context.Context, templateID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "ccnl.render",
		trace.WithAttributes(attribute.String("template.id", templateID)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartCompareSpan starts a span for a cost comparison.
func (m *otelSpanManager) StartCompareSpan(ctx context.Context, codeA, codeB string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "ccnl.compare",
		trace.WithAttributes(
			attribute.String("contract.a", codeA),
			attribute.String("contract.b", codeB),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
