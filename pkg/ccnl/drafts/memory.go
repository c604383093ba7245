package drafts

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
)

// MemoryStore is an in-memory draft store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]Draft
	closed bool
}

// NewMemoryStore creates a new in-memory draft store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]Draft),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, d Draft) error {
	if err := validate(d); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	m.data[d.ID] = clone(d)
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, id string) (Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Draft{}, ErrStoreClosed
	}

	d, ok := m.data[id]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return clone(d), nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context, templateID string) ([]Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	out := make([]Draft, 0, len(m.data))
	for _, d := range m.data {
		if templateID != "" && d.TemplateID != templateID {
			continue
		}
		out = append(out, clone(d))
	}
	sort.Slice(out, func(i, j int) bool { return sortKeyLess(out[i], out[j]) })
	return out, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, id)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the number of stored drafts.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// clone copies the reference fields so callers cannot mutate stored state.
func clone(d Draft) Draft {
	d.Bindings = maps.Clone(d.Bindings)
	d.MissingKeys = slices.Clone(d.MissingKeys)
	return d
}
