package service

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/ccnlkit/pkg/ccnl/drafts"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/observability"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/template"
)

// Option configures a Service.
type Option func(*Service)

// WithStore sets the store used for drafts.
// Without a store, draft operations return ErrNoStore.
func WithStore(store drafts.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithRenderer sets the renderer. Default: template.NewRenderer().
func WithRenderer(r *template.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter provider.
func WithMetrics(enabled bool) Option {
	return func(s *Service) {
		if enabled {
			s.metrics = observability.NewMetricsRecorder()
		} else {
			s.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a specific recorder.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracing enables OpenTelemetry spans using the global tracer provider.
func WithTracing(enabled bool) Option {
	return func(s *Service) {
		if enabled {
			s.spans = observability.NewSpanManager()
		} else {
			s.spans = observability.NoopSpanManager{}
		}
	}
}

// WithClock sets the time source for draft timestamps. Default: time.Now in UTC.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the draft ID generator. Default: uuid.NewString.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}
