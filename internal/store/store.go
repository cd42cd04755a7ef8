// Package store persists completed packing plans to a local SQLite
// database so the dashboard can show history and exports can be
// regenerated after a restart.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite connection with plan-specific operations.
type Store struct {
	conn *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It enables WAL mode, foreign keys, and runs migrations. The pragmas
// ride on the DSN so they apply to every pooled connection, not just
// the one that happens to run an Exec.
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// migrate creates or updates the database schema.
func (s *Store) migrate() error {
	schema := `
-- Plans table: one row per completed packing run
CREATE TABLE IF NOT EXISTS plans (
    id              TEXT PRIMARY KEY,
    created_at      DATETIME NOT NULL,
    width           REAL NOT NULL,
    depth           REAL NOT NULL,
    height          REAL NOT NULL,
    max_weight      REAL NOT NULL,
    containers      INTEGER NOT NULL,
    placed          INTEGER NOT NULL,
    unplaced_json   TEXT,
    oversized_json  TEXT
);

-- Placements table: every placed item within a plan
CREATE TABLE IF NOT EXISTS placements (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    plan_id         TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
    container_idx   INTEGER NOT NULL,
    name            TEXT NOT NULL,
    dx              REAL NOT NULL,
    dy              REAL NOT NULL,
    dz              REAL NOT NULL,
    weight          REAL NOT NULL,
    x               REAL NOT NULL,
    y               REAL NOT NULL,
    z               REAL NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_plans_created_at ON plans(created_at);
CREATE INDEX IF NOT EXISTS idx_placements_plan_id ON placements(plan_id);
`

	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}
