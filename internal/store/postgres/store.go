// Package postgres persists the collections that outlive a single scan:
// saved scan profiles, watchlist entries, and scan history. Rows store
// ScanResult copies as JSONB; the pipeline itself never touches this
// package.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS scan_profiles (
    id         SERIAL PRIMARY KEY,
    name       TEXT NOT NULL UNIQUE,
    request    JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS watchlist (
    ticker     TEXT PRIMARY KEY,
    snapshot   JSONB NOT NULL,
    added_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS scan_history (
    id         SERIAL PRIMARY KEY,
    scan_id    TEXT NOT NULL,
    mode       TEXT NOT NULL,
    request    JSONB NOT NULL,
    results    JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS scan_history_created_idx ON scan_history (created_at DESC);
`

// Store wraps the Postgres connection for all persisted collections.
type Store struct {
	db      *sqlx.DB
	timeout time.Duration
}

// Open connects to Postgres and ensures the schema exists.
func Open(dsn string, timeout time.Duration) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db, timeout: timeout}, nil
}

// NewStore wraps an existing connection; the schema is assumed present.
func NewStore(db *sqlx.DB, timeout time.Duration) *Store {
	return &Store{db: db, timeout: timeout}
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Profile is a saved scan request under a user-chosen name.
type Profile struct {
	ID        int64              `db:"id" json:"id"`
	Name      string             `db:"name" json:"name"`
	Request   models.ScanRequest `json:"request"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
}

// SaveProfile upserts a named scan request.
func (s *Store) SaveProfile(ctx context.Context, name string, req models.ScanRequest) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	query := `
		INSERT INTO scan_profiles (name, request)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET request = EXCLUDED.request`
	if _, err := s.db.ExecContext(ctx, query, name, payload); err != nil {
		return fmt.Errorf("failed to save profile %q: %w", name, err)
	}
	return nil
}

// GetProfile loads a profile by name. Returns sql.ErrNoRows when absent.
func (s *Store) GetProfile(ctx context.Context, name string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var row struct {
		ID        int64     `db:"id"`
		Name      string    `db:"name"`
		Request   []byte    `db:"request"`
		CreatedAt time.Time `db:"created_at"`
	}
	query := `SELECT id, name, request, created_at FROM scan_profiles WHERE name = $1`
	if err := s.db.GetContext(ctx, &row, query, name); err != nil {
		return nil, err
	}

	profile := &Profile{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt}
	if err := json.Unmarshal(row.Request, &profile.Request); err != nil {
		return nil, fmt.Errorf("corrupt profile %q: %w", name, err)
	}
	return profile, nil
}

// ListProfiles returns all profiles, most recent first.
func (s *Store) ListProfiles(ctx context.Context) ([]Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rows []struct {
		ID        int64     `db:"id"`
		Name      string    `db:"name"`
		Request   []byte    `db:"request"`
		CreatedAt time.Time `db:"created_at"`
	}
	query := `SELECT id, name, request, created_at FROM scan_profiles ORDER BY created_at DESC`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]Profile, 0, len(rows))
	for _, row := range rows {
		p := Profile{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt}
		if err := json.Unmarshal(row.Request, &p.Request); err != nil {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// DeleteProfile removes a profile by name.
func (s *Store) DeleteProfile(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM scan_profiles WHERE name = $1`, name); err != nil {
		return fmt.Errorf("failed to delete profile %q: %w", name, err)
	}
	return nil
}

// WatchlistEntry is a pinned ScanResult snapshot.
type WatchlistEntry struct {
	Ticker   string            `json:"ticker"`
	Snapshot models.ScanResult `json:"snapshot"`
	AddedAt  time.Time         `json:"added_at"`
}

// AddToWatchlist pins a result snapshot, replacing any existing pin for
// the same ticker.
func (s *Store) AddToWatchlist(ctx context.Context, result models.ScanResult) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO watchlist (ticker, snapshot)
		VALUES ($1, $2)
		ON CONFLICT (ticker) DO UPDATE SET snapshot = EXCLUDED.snapshot, added_at = now()`
	if _, err := s.db.ExecContext(ctx, query, result.Ticker, payload); err != nil {
		return fmt.Errorf("failed to add %s to watchlist: %w", result.Ticker, err)
	}
	return nil
}

// Watchlist returns all pinned snapshots, most recent first.
func (s *Store) Watchlist(ctx context.Context) ([]WatchlistEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rows []struct {
		Ticker   string    `db:"ticker"`
		Snapshot []byte    `db:"snapshot"`
		AddedAt  time.Time `db:"added_at"`
	}
	query := `SELECT ticker, snapshot, added_at FROM watchlist ORDER BY added_at DESC`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to read watchlist: %w", err)
	}

	entries := make([]WatchlistEntry, 0, len(rows))
	for _, row := range rows {
		e := WatchlistEntry{Ticker: row.Ticker, AddedAt: row.AddedAt}
		if err := json.Unmarshal(row.Snapshot, &e.Snapshot); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// RemoveFromWatchlist unpins a ticker.
func (s *Store) RemoveFromWatchlist(ctx context.Context, ticker string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM watchlist WHERE ticker = $1`, ticker); err != nil {
		return fmt.Errorf("failed to remove %s from watchlist: %w", ticker, err)
	}
	return nil
}

// HistoryEntry is one completed scan's request and result snapshot.
type HistoryEntry struct {
	ID        int64               `json:"id"`
	ScanID    string              `json:"scan_id"`
	Mode      models.ScanMode     `json:"mode"`
	Request   models.ScanRequest  `json:"request"`
	Results   []models.ScanResult `json:"results"`
	CreatedAt time.Time           `json:"created_at"`
}

// RecordScan appends a scan to the history.
func (s *Store) RecordScan(ctx context.Context, scanID string, req models.ScanRequest, results []models.ScanResult) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reqPayload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	resPayload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	query := `INSERT INTO scan_history (scan_id, mode, request, results) VALUES ($1, $2, $3, $4)`
	if _, err := s.db.ExecContext(ctx, query, scanID, string(req.Mode), reqPayload, resPayload); err != nil {
		return fmt.Errorf("failed to record scan %s: %w", scanID, err)
	}
	return nil
}

// History returns up to limit entries, most recent first.
func (s *Store) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}

	var rows []struct {
		ID        int64     `db:"id"`
		ScanID    string    `db:"scan_id"`
		Mode      string    `db:"mode"`
		Request   []byte    `db:"request"`
		Results   []byte    `db:"results"`
		CreatedAt time.Time `db:"created_at"`
	}
	query := `SELECT id, scan_id, mode, request, results, created_at FROM scan_history ORDER BY created_at DESC LIMIT $1`
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for _, row := range rows {
		e := HistoryEntry{
			ID:        row.ID,
			ScanID:    row.ScanID,
			Mode:      models.ScanMode(row.Mode),
			CreatedAt: row.CreatedAt,
		}
		if err := json.Unmarshal(row.Request, &e.Request); err != nil {
			continue
		}
		if err := json.Unmarshal(row.Results, &e.Results); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// IsNotFound reports whether err is the store's not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
