package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// timeLayout is fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists drafts to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite draft store.
// The path should be a file path (e.g., "./drafts.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A :memory: database exists per connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Concurrent CLI runs share one database file.
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS drafts (
			id TEXT PRIMARY KEY,
			template_id TEXT NOT NULL,
			bindings TEXT NOT NULL,
			output TEXT NOT NULL,
			missing_keys TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_drafts_template_id
		ON drafts(template_id, updated_at)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, d Draft) error {
	if err := validate(d); err != nil {
		return err
	}

	bindings, err := json.Marshal(d.Bindings)
	if err != nil {
		return fmt.Errorf("encode bindings: %w", err)
	}
	missing, err := json.Marshal(d.MissingKeys)
	if err != nil {
		return fmt.Errorf("encode missing keys: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO drafts (id, template_id, bindings, output, missing_keys, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			template_id = excluded.template_id,
			bindings = excluded.bindings,
			output = excluded.output,
			missing_keys = excluded.missing_keys,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, d.ID, d.TemplateID, string(bindings), d.Output, string(missing),
		formatTime(d.CreatedAt), formatTime(d.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context, id string) (Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Draft{}, ErrStoreClosed
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, template_id, bindings, output, missing_keys, created_at, updated_at
		FROM drafts
		WHERE id = ?
	`, id)

	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("load draft: %w", err)
	}
	return d, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, templateID string) ([]Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, template_id, bindings, output, missing_keys, created_at, updated_at
		FROM drafts
		WHERE ? = '' OR template_id = ?
		ORDER BY updated_at DESC, id ASC
	`, templateID, templateID)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	out := []Draft{}
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drafts: %w", err)
	}
	return out, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(sc scanner) (Draft, error) {
	var d Draft
	var bindings, missing, created, updated string
	if err := sc.Scan(&d.ID, &d.TemplateID, &bindings, &d.Output, &missing, &created, &updated); err != nil {
		return Draft{}, err
	}
	if err := json.Unmarshal([]byte(bindings), &d.Bindings); err != nil {
		return Draft{}, fmt.Errorf("decode bindings: %w", err)
	}
	if err := json.Unmarshal([]byte(missing), &d.MissingKeys); err != nil {
		return Draft{}, fmt.Errorf("decode missing keys: %w", err)
	}
	var err error
	if d.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return Draft{}, fmt.Errorf("decode created_at: %w", err)
	}
	if d.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return Draft{}, fmt.Errorf("decode updated_at: %w", err)
	}
	return d, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
