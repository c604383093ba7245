package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest installs a test meter provider with a manual reader.
func setupMetricsTest(t *testing.T) *sdkmetric.ManualReader {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	original := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	t.Cleanup(func() {
		otel.SetMeterProvider(original)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	})
	return reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumWhere(t *testing.T, m *metricdata.Metrics, key attribute.Key, value string) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(key); ok && v.Emit() == value {
			total += dp.Value
		}
	}
	return total
}

func TestNewMetricsRecorder(t *testing.T) {
	setupMetricsTest(t)

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestNewMetricsRecorderFor(t *testing.T) {
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

		recorder := NewMetricsRecorderFor(provider)
		recorder.RecordDraftSave(ctx, "lettera", true, nil)

		rm := collectMetrics(t, reader)
		saves := findMetric(rm, "ccnl.draft.saves")
		require.NotNil(t, saves, "provider %d", i)
		assert.Equal(t, int64(1), sumWhere(t, saves, "template_id", "lettera"))
		require.NoError(t, provider.Shutdown(ctx))
	}
}

func TestRecordRender(t *testing.T) {
	reader := setupMetricsTest(t)
	m, err := newOtelMetrics(otel.Meter("ccnl"))
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordRender(ctx, "lettera", 0, 2*time.Millisecond)
	m.RecordRender(ctx, "lettera", 3, time.Millisecond)
	m.RecordRender(ctx, "checklist", 1, time.Millisecond)

	rm := collectMetrics(t, reader)

	count := findMetric(rm, "ccnl.render.count")
	require.NotNil(t, count)
	assert.Equal(t, int64(2), sumWhere(t, count, "template_id", "lettera"))
	assert.Equal(t, int64(2), sumWhere(t, count, "complete", "false"))

	latency := findMetric(rm, "ccnl.render.latency_ms")
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "Expected Histogram type")
	assert.NotEmpty(t, hist.DataPoints)

	missing := findMetric(rm, "ccnl.render.missing_keys")
	require.NotNil(t, missing)
	mh, ok := missing.Data.(metricdata.Histogram[int64])
	require.True(t, ok, "Expected Histogram type")
	var total int64
	for _, dp := range mh.DataPoints {
		total += dp.Sum
	}
	assert.Equal(t, int64(4), total)
}

func TestRecordCompare(t *testing.T) {
	reader := setupMetricsTest(t)
	m, err := newOtelMetrics(otel.Meter("ccnl"))
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordCompare(ctx, time.Millisecond, nil)
	m.RecordCompare(ctx, time.Millisecond, errors.New("boom"))

	rm := collectMetrics(t, reader)
	count := findMetric(rm, "ccnl.compare.count")
	require.NotNil(t, count)
	assert.Equal(t, int64(1), sumWhere(t, count, "success", "true"))
	assert.Equal(t, int64(1), sumWhere(t, count, "success", "false"))

	require.NotNil(t, findMetric(rm, "ccnl.compare.errors"))
	require.NotNil(t, findMetric(rm, "ccnl.compare.latency_ms"))
}

func TestRecordDraftSave(t *testing.T) {
	reader := setupMetricsTest(t)
	m, err := newOtelMetrics(otel.Meter("ccnl"))
	require.NoError(t, err)

	m.RecordDraftSave(context.Background(), "lettera", false, nil)

	rm := collectMetrics(t, reader)
	saves := findMetric(rm, "ccnl.draft.saves")
	require.NotNil(t, saves)
	assert.Equal(t, int64(1), sumWhere(t, saves, "template_id", "lettera"))
}

func TestNoopMetrics(t *testing.T) {
	var m MetricsRecorder = NoopMetrics{}
	assert.NotPanics(t, func() {
		m.RecordRender(context.Background(), "x", 1, time.Second)
		m.RecordCompare(context.Background(), time.Second, errors.New("x"))
		m.RecordDraftSave(context.Background(), "x", true, nil)
	})
}
