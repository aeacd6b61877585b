// package history persists published domain events as a playback journal.
//
// The journal is append-only: one row per event, queryable from the CLI.
// It deliberately stores event classifications and positions, not track
// metadata caches.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Brandand88/mirror/internal/shared"
)

// Record is one journal row.
type Record struct {
	ID         string
	Kind       string
	Detail     string
	PositionMS int
	CreatedAt  time.Time
}

// Store is a SQLite-backed playback event journal.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database connection. Call [shared.RunMigrations]
// (or Migrate) before first use.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens the journal database at path, configures the pool, and runs
// migrations.
func Open(cfg shared.DatabaseConfig) (*Store, error) {
	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate journal database: %w", err)
	}

	return &Store{db: db}, nil
}

// Migrate runs pending schema migrations.
func (s *Store) Migrate() error {
	return shared.RunMigrations(s.db)
}

// Append inserts a journal record. A zero ID and CreatedAt are filled in.
func (s *Store) Append(rec Record) error {
	if rec.ID == "" {
		rec.ID = shared.GenerateID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Kind == "" {
		return fmt.Errorf("%w: record kind is required", shared.ErrInvalidInput)
	}

	_, err := s.db.Exec(
		"INSERT INTO playback_events (id, kind, detail, position_ms, created_at) VALUES (?, ?, ?, ?, ?)",
		rec.ID, rec.Kind, rec.Detail, rec.PositionMS, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append journal record: %w", err)
	}

	return nil
}

// List returns the most recent records, newest first. A non-positive limit
// defaults to 50.
func (s *Store) List(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		"SELECT id, kind, detail, position_ms, created_at FROM playback_events ORDER BY created_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Detail, &rec.PositionMS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal rows: %w", err)
	}

	return records, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
