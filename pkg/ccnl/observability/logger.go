// Package observability provides structured logging, metrics and tracing
// for document rendering and cost comparison.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds document context to a logger. Empty IDs are omitted.
//
// Example:
//
//	enriched := EnrichLogger(logger, "lettera-assunzione", "5f0c...")
//	enriched.Info("rendering") // includes template_id and draft_id
func EnrichLogger(logger *slog.Logger, templateID, draftID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	var attrs []any
	if templateID != "" {
		attrs = append(attrs, slog.String("template_id", templateID))
	}
	if draftID != "" {
		attrs = append(attrs, slog.String("draft_id", draftID))
	}
	return logger.With(attrs...)
}

// LogRender logs a completed render. Incomplete documents are logged at
// WARN with the keys that still need values.
func LogRender(logger *slog.Logger, templateID string, missingKeys []string, durationMs float64) {
	if logger == nil {
		return
	}
	if len(missingKeys) == 0 {
		logger.Info("document rendered",
			slog.String("template_id", templateID),
			slog.Float64("duration_ms", durationMs),
		)
		return
	}
	logger.Warn("document rendered with missing fields",
		slog.String("template_id", templateID),
		slog.Any("missing_keys", missingKeys),
		slog.Int("missing_count", len(missingKeys)),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogUnsupportedValues logs bindings whose values could not be stringified.
func LogUnsupportedValues(logger *slog.Logger, templateID string, keys []string) {
	if logger == nil || len(keys) == 0 {
		return
	}
	logger.Warn("unsupported binding values ignored",
		slog.String("template_id", templateID),
		slog.Any("keys", keys),
	)
}

// LogDraftSaved logs a persisted draft.
func LogDraftSaved(logger *slog.Logger, draftID, templateID string, complete bool) {
	if logger == nil {
		return
	}
	logger.Info("draft saved",
		slog.String("draft_id", draftID),
		slog.String("template_id", templateID),
		slog.Bool("complete", complete),
	)
}

// LogDraftError logs a draft store failure.
func LogDraftError(logger *slog.Logger, draftID, op string, err error) {
	if logger == nil {
		return
	}
	logger.Error("draft operation failed",
		slog.String("draft_id", draftID),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// LogCompare logs a cost comparison.
func LogCompare(logger *slog.Logger, codeA, codeB string, deltaAnnual float64, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("contracts compared",
		slog.String("contract_a", codeA),
		slog.String("contract_b", codeB),
		slog.Float64("delta_annual", deltaAnnual),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCompareError logs a failed cost comparison.
func LogCompareError(logger *slog.Logger, codeA, codeB string, err error) {
	if logger == nil {
		return
	}
	logger.Error("contract comparison failed",
		slog.String("contract_a", codeA),
		slog.String("contract_b", codeB),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
