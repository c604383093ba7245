package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records rendering and comparison metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordRender records a document render with its missing key count.
	RecordRender(ctx context.Context, templateID string, missingKeys int, duration time.Duration)

	// RecordCompare records a cost comparison.
	RecordCompare(ctx context.Context, duration time.Duration, err error)

	// RecordDraftSave records a draft write.
	RecordDraftSave(ctx context.Context, templateID string, complete bool, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	renders        metric.Int64Counter
	renderLatency  metric.Float64Histogram
	missingKeys    metric.Int64Histogram
	compares       metric.Int64Counter
	compareLatency metric.Float64Histogram
	compareErrors  metric.Int64Counter
	draftSaves     metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics(otel.Meter("ccnl"))
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates the instruments on meter.
func newOtelMetrics(meter metric.Meter) (*otelMetrics, error) {
	renders, err := meter.Int64Counter("ccnl.render.count",
		metric.WithDescription("Number of document renders"),
	)
	if err != nil {
		return nil, err
	}

	renderLatency, err := meter.Float64Histogram("ccnl.render.latency_ms",
		metric.WithDescription("Document render latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	missingKeys, err := meter.Int64Histogram("ccnl.render.missing_keys",
		metric.WithDescription("Unresolved placeholders per render"),
	)
	if err != nil {
		return nil, err
	}

	compares, err := meter.Int64Counter("ccnl.compare.count",
		metric.WithDescription("Number of cost comparisons"),
	)
	if err != nil {
		return nil, err
	}

	compareLatency, err := meter.Float64Histogram("ccnl.compare.latency_ms",
		metric.WithDescription("Cost comparison latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	compareErrors, err := meter.Int64Counter("ccnl.compare.errors",
		metric.WithDescription("Number of failed cost comparisons"),
	)
	if err != nil {
		return nil, err
	}

	draftSaves, err := meter.Int64Counter("ccnl.draft.saves",
		metric.WithDescription("Number of draft writes"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		renders:        renders,
		renderLatency:  renderLatency,
		missingKeys:    missingKeys,
		compares:       compares,
		compareLatency: compareLatency,
		compareErrors:  compareErrors,
		draftSaves:     draftSaves,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function.
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// NewMetricsRecorderFor returns a MetricsRecorder whose instruments belong to
// mp instead of the global provider. Each call creates new instruments.
// If initialization fails, returns a no-op recorder.
func NewMetricsRecorderFor(mp metric.MeterProvider) MetricsRecorder {
	m, err := newOtelMetrics(mp.Meter("ccnl"))
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordRender records a document render.
func (m *otelMetrics) RecordRender(ctx context.Context, templateID string, missingKeys int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("template_id", templateID),
		attribute.Bool("complete", missingKeys == 0),
	)
	m.renders.Add(ctx, 1, attrs)
	m.renderLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	m.missingKeys.Record(ctx, int64(missingKeys), attrs)
}

// RecordCompare records a cost comparison.
func (m *otelMetrics) RecordCompare(ctx context.Context, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.compares.Add(ctx, 1, attrs)
	m.compareLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		m.compareErrors.Add(ctx, 1)
	}
}

// RecordDraftSave records a draft write.
func (m *otelMetrics) RecordDraftSave(ctx context.Context, templateID string, complete bool, err error) {
	m.draftSaves.Add(ctx, 1, metric.WithAttributes(
		attribute.String("template_id", templateID),
		attribute.Bool("complete", complete),
		attribute.Bool("success", err == nil),
	))
}
