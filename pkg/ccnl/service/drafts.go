package service

import (
	"context"
	"fmt"

	"github.com/randalmurphal/ccnlkit/pkg/ccnl/drafts"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/observability"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/template"
)

// SaveDraft renders a template and stores the result as a new draft.
// Bindings are stored as the text the renderer substituted.
func (s *Service) SaveDraft(ctx context.Context, templateID string, bindings template.Bindings) (drafts.Draft, error) {
	if s.store == nil {
		return drafts.Draft{}, ErrNoStore
	}
	doc, err := s.RenderDocument(ctx, templateID, bindings)
	if err != nil {
		return drafts.Draft{}, err
	}
	return s.SaveDocument(ctx, doc, bindings)
}

// SaveDocument stores an already rendered document as a new draft without
// rendering it again. bindings are the values doc was rendered from; they are
// stored as the text the renderer substitutes.
func (s *Service) SaveDocument(ctx context.Context, doc Document, bindings template.Bindings) (drafts.Draft, error) {
	if s.store == nil {
		return drafts.Draft{}, ErrNoStore
	}
	if _, err := s.template(doc.TemplateID); err != nil {
		return drafts.Draft{}, err
	}

	now := s.now()
	d := drafts.Draft{
		ID:          s.newID(),
		TemplateID:  doc.TemplateID,
		Bindings:    s.renderer.Stringify(bindings),
		Output:      doc.Output,
		MissingKeys: doc.MissingKeys,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.save(ctx, d); err != nil {
		return drafts.Draft{}, err
	}
	return d, nil
}

// ResumeDraft merges extra into a saved draft's bindings, renders the
// template again and updates the draft. Extra values override saved ones.
func (s *Service) ResumeDraft(ctx context.Context, id string, extra template.Bindings) (drafts.Draft, error) {
	d, err := s.LoadDraft(ctx, id)
	if err != nil {
		return drafts.Draft{}, err
	}

	tmpl, err := s.template(d.TemplateID)
	if err != nil {
		return drafts.Draft{}, fmt.Errorf("resume draft %s: %w", id, err)
	}
	bindings := template.FromStrings(d.Bindings).Merge(extra)
	doc := s.render(ctx, observability.EnrichLogger(s.logger, "", d.ID), tmpl, bindings)

	d.Bindings = s.renderer.Stringify(bindings)
	d.Output = doc.Output
	d.MissingKeys = doc.MissingKeys
	d.UpdatedAt = s.now()
	if err := s.save(ctx, d); err != nil {
		return drafts.Draft{}, err
	}
	return d, nil
}

func (s *Service) save(ctx context.Context, d drafts.Draft) error {
	err := s.store.Save(ctx, d)
	s.metrics.RecordDraftSave(ctx, d.TemplateID, d.Complete(), err)
	if err != nil {
		observability.LogDraftError(s.logger, d.ID, "save", err)
		return fmt.Errorf("save draft: %w", err)
	}
	observability.LogDraftSaved(s.logger, d.ID, d.TemplateID, d.Complete())
	return nil
}

// LoadDraft returns a saved draft. Returns drafts.ErrNotFound (wrapped) if
// it does not exist.
func (s *Service) LoadDraft(ctx context.Context, id string) (drafts.Draft, error) {
	if s.store == nil {
		return drafts.Draft{}, ErrNoStore
	}
	d, err := s.store.Load(ctx, id)
	if err != nil {
		observability.LogDraftError(s.logger, id, "load", err)
		return drafts.Draft{}, fmt.Errorf("load draft %s: %w", id, err)
	}
	return d, nil
}

// ListDrafts returns drafts for a template, most recently updated first.
// An empty templateID lists every draft.
func (s *Service) ListDrafts(ctx context.Context, templateID string) ([]drafts.Draft, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	list, err := s.store.List(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return list, nil
}

// DeleteDraft removes a draft. Deleting an unknown ID is not an error.
func (s *Service) DeleteDraft(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrNoStore
	}
	if err := s.store.Delete(ctx, id); err != nil {
		observability.LogDraftError(s.logger, id, "delete", err)
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	return nil
}
