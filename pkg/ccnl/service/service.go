// Package service renders catalog documents, keeps their drafts and compares
// contract cost profiles, recording logs, metrics and spans along the way.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/ccnlkit/pkg/ccnl/catalog"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/cost"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/drafts"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/observability"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/template"
)

// Document is a rendered catalog template.
type Document struct {
	TemplateID string
	Title      string

	// Order lists section names in display order.
	Order []string

	// Sections maps each section name to its rendered result.
	Sections map[string]template.RenderResult

	// Output joins the rendered sections in Order, separated by a blank line.
	Output string

	// MissingKeys aggregates missing keys across sections in Order,
	// deduplicated.
	MissingKeys []string

	// UnsupportedKeys is the subset of MissingKeys bound to values of an
	// unsupported kind.
	UnsupportedKeys []string

	// MissingRequired lists required fields that are still missing, in
	// declaration order.
	MissingRequired []string
}

// Complete reports whether every placeholder was resolved.
func (d Document) Complete() bool {
	return len(d.MissingKeys) == 0
}

// Err returns a *template.MissingKeysError when the document is incomplete.
func (d Document) Err() error {
	if d.Complete() {
		return nil
	}
	return &template.MissingKeysError{Keys: append([]string(nil), d.MissingKeys...)}
}

// SectionsResult returns the document in the form the preview package renders.
func (d Document) SectionsResult() template.SectionsResult {
	return template.SectionsResult{
		Sections:    d.Sections,
		Order:       d.Order,
		MissingKeys: d.MissingKeys,
	}
}

// Service ties the catalog, renderer and draft store together.
// Service is safe for concurrent use if its store is.
type Service struct {
	catalog  *catalog.Catalog
	store    drafts.Store
	renderer *template.Renderer
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
	now      func() time.Time
	newID    func() string
}

// New creates a Service over cat.
//
// Panics if cat is nil.
func New(cat *catalog.Catalog, opts ...Option) *Service {
	if cat == nil {
		panic("service: catalog cannot be nil")
	}
	s := &Service{
		catalog:  cat,
		renderer: template.NewRenderer(),
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the service renders from.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Placeholders returns the keys referenced by a template, sorted.
func (s *Service) Placeholders(templateID string) ([]string, error) {
	tmpl, err := s.template(templateID)
	if err != nil {
		return nil, err
	}
	return tmpl.Placeholders(), nil
}

// RenderDocument renders every section of a template with bindings.
// Missing values do not cause an error; inspect Document.MissingKeys or
// call Document.Err.
func (s *Service) RenderDocument(ctx context.Context, templateID string, bindings template.Bindings) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	tmpl, err := s.template(templateID)
	if err != nil {
		return Document{}, err
	}
	return s.render(ctx, s.logger, tmpl, bindings), nil
}

func (s *Service) template(id string) (catalog.DocumentTemplate, error) {
	tmpl, ok := s.catalog.Template(id)
	if !ok {
		return catalog.DocumentTemplate{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return tmpl, nil
}

func (s *Service) render(ctx context.Context, logger *slog.Logger, tmpl catalog.DocumentTemplate, bindings template.Bindings) Document {
	ctx, span := s.spans.StartRenderSpan(ctx, tmpl.ID)
	start := time.Now()

	doc := Document{
		TemplateID:      tmpl.ID,
		Title:           tmpl.Title,
		Order:           tmpl.SectionOrder(),
		MissingKeys:     []string{},
		UnsupportedKeys: []string{},
		MissingRequired: []string{},
	}
	sections := tmpl.AllSections()
	doc.Sections = make(map[string]template.RenderResult, len(sections))

	missing := make(map[string]bool)
	unsupported := make(map[string]bool)
	outputs := make([]string, 0, len(doc.Order))
	for _, name := range doc.Order {
		res := s.renderer.Render(sections[name], bindings)
		doc.Sections[name] = res
		outputs = append(outputs, strings.TrimRight(res.Output, "\n"))
		for _, k := range res.MissingKeys {
			if !missing[k] {
				missing[k] = true
				doc.MissingKeys = append(doc.MissingKeys, k)
			}
		}
		for _, k := range res.UnsupportedKeys {
			if !unsupported[k] {
				unsupported[k] = true
				doc.UnsupportedKeys = append(doc.UnsupportedKeys, k)
			}
		}
	}
	doc.Output = strings.Join(outputs, "\n\n")
	for _, k := range tmpl.RequiredKeys() {
		if missing[k] {
			doc.MissingRequired = append(doc.MissingRequired, k)
		}
	}

	duration := time.Since(start)
	s.metrics.RecordRender(ctx, tmpl.ID, len(doc.MissingKeys), duration)
	s.spans.AddSpanEvent(ctx, "rendered",
		attribute.Int("sections", len(doc.Order)),
		attribute.Int("missing_keys", len(doc.MissingKeys)),
	)
	s.spans.EndSpanWithError(span, nil)

	observability.LogRender(logger, tmpl.ID, doc.MissingKeys, float64(duration.Microseconds())/1000)
	observability.LogUnsupportedValues(logger, tmpl.ID, doc.UnsupportedKeys)
	return doc
}

// CompareProfiles simulates two catalog profiles and compares them (b - a).
func (s *Service) CompareProfiles(ctx context.Context, codeA, codeB string) (result cost.Comparison, err error) {
	if err := ctx.Err(); err != nil {
		return cost.Comparison{}, err
	}

	ctx, span := s.spans.StartCompareSpan(ctx, codeA, codeB)
	start := time.Now()
	defer func() {
		duration := time.Since(start)
		s.metrics.RecordCompare(ctx, duration, err)
		s.spans.EndSpanWithError(span, err)
		if err != nil {
			observability.LogCompareError(s.logger, codeA, codeB, err)
			return
		}
		observability.LogCompare(s.logger, codeA, codeB, result.DeltaAnnual, float64(duration.Microseconds())/1000)
	}()

	a, ok := s.catalog.Profile(codeA)
	if !ok {
		return cost.Comparison{}, fmt.Errorf("%w: %s", ErrProfileNotFound, codeA)
	}
	b, ok := s.catalog.Profile(codeB)
	if !ok {
		return cost.Comparison{}, fmt.Errorf("%w: %s", ErrProfileNotFound, codeB)
	}
	return cost.Compare(a, b)
}

// SimulateProfile returns the cost breakdown of a single catalog profile.
func (s *Service) SimulateProfile(code string) (cost.Breakdown, error) {
	p, ok := s.catalog.Profile(code)
	if !ok {
		return cost.Breakdown{}, fmt.Errorf("%w: %s", ErrProfileNotFound, code)
	}
	return cost.Simulate(p)
}
