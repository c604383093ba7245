package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/randalmurphal/ccnlkit/pkg/ccnl/config"
)

// telemetry owns the OTel providers installed for one command run.
// Metrics are collected once at shutdown and printed as a summary.
type telemetry struct {
	reader         *sdkmetric.ManualReader
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	w              io.Writer
}

func startTelemetry(s config.Settings, logger *slog.Logger, w io.Writer) *telemetry {
	t := &telemetry{w: w}
	if s.Metrics {
		t.reader = sdkmetric.NewManualReader()
		t.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(t.reader))
		otel.SetMeterProvider(t.meterProvider)
	}
	if s.Tracing {
		t.tracerProvider = sdktrace.NewTracerProvider(sdktrace.WithSyncer(&logExporter{logger: logger}))
		otel.SetTracerProvider(t.tracerProvider)
	}
	return t
}

// meters returns the meter provider of this run, or nil when metrics are off.
func (t *telemetry) meters() *sdkmetric.MeterProvider {
	if t == nil {
		return nil
	}
	return t.meterProvider
}

func (t *telemetry) shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error
	if t.reader != nil {
		var rm metricdata.ResourceMetrics
		if err := t.reader.Collect(ctx, &rm); err != nil {
			errs = append(errs, fmt.Errorf("collect metrics: %w", err))
		} else {
			t.printMetrics(rm)
		}
		errs = append(errs, t.meterProvider.Shutdown(ctx))
	}
	if t.tracerProvider != nil {
		errs = append(errs, t.tracerProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// printMetrics writes one line per instrument: counter totals and
// histogram count/sum.
func (t *telemetry) printMetrics(rm metricdata.ResourceMetrics) {
	var lines []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				lines = append(lines, fmt.Sprintf("%s %d", m.Name, total))
			case metricdata.Histogram[int64]:
				var count uint64
				var sum int64
				for _, dp := range data.DataPoints {
					count += dp.Count
					sum += dp.Sum
				}
				lines = append(lines, fmt.Sprintf("%s count=%d sum=%d", m.Name, count, sum))
			case metricdata.Histogram[float64]:
				var count uint64
				var sum float64
				for _, dp := range data.DataPoints {
					count += dp.Count
					sum += dp.Sum
				}
				lines = append(lines, fmt.Sprintf("%s count=%d sum=%.3f", m.Name, count, sum))
			}
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(t.w, mutedStyle.Render(l))
	}
}

// logExporter writes finished spans to the debug log.
type logExporter struct {
	logger *slog.Logger
}

func (e *logExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		e.logger.Debug("span",
			slog.String("name", s.Name()),
			slog.String("trace_id", s.SpanContext().TraceID().String()),
			slog.Duration("duration", s.EndTime().Sub(s.StartTime())),
			slog.String("status", s.Status().Code.String()),
		)
	}
	return nil
}

func (e *logExporter) Shutdown(context.Context) error {
	return nil
}
