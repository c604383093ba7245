// Package drafts persists rendered documents that may still have missing
// fields, so that users can resume them later.
package drafts

import (
	"context"
	"errors"
	"time"
)

// Draft is a saved render of a document template.
type Draft struct {
	ID          string            `json:"id"`
	TemplateID  string            `json:"template_id"`
	Bindings    map[string]string `json:"bindings"`
	Output      string            `json:"output"`
	MissingKeys []string          `json:"missing_keys"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Complete reports whether the draft has no missing keys.
func (d Draft) Complete() bool {
	return len(d.MissingKeys) == 0
}

// Store persists drafts.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save inserts or replaces the draft with d.ID.
	Save(ctx context.Context, d Draft) error

	// Load retrieves a draft.
	// Returns ErrNotFound if the draft doesn't exist.
	Load(ctx context.Context, id string) (Draft, error)

	// List returns drafts for a template, most recently updated first.
	// An empty templateID lists every draft.
	// Returns an empty slice (not error) when nothing matches.
	List(ctx context.Context, templateID string) ([]Draft, error)

	// Delete removes a draft.
	// Returns nil if the draft doesn't exist.
	Delete(ctx context.Context, id string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for draft operations.
var (
	// ErrNotFound indicates a draft doesn't exist.
	ErrNotFound = errors.New("draft not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("draft store closed")

	// ErrInvalidDraft indicates a draft is missing its ID or template ID.
	ErrInvalidDraft = errors.New("invalid draft")
)

func validate(d Draft) error {
	if d.ID == "" {
		return errors.Join(ErrInvalidDraft, errors.New("id is required"))
	}
	if d.TemplateID == "" {
		return errors.Join(ErrInvalidDraft, errors.New("template id is required"))
	}
	return nil
}

// sortKeyLess orders drafts by UpdatedAt descending, then ID ascending.
func sortKeyLess(a, b Draft) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID < b.ID
}
