package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB stores students and postings in a local SQLite file
type DB struct {
	pool *sql.DB
}

// Open opens (creating if needed) the SQLite database at path
func Open(ctx context.Context, path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// sqlite allows a single writer
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database
func (d *DB) Close() error {
	if d == nil || d.pool == nil {
		return nil
	}
	return d.pool.Close()
}

// schema is applied in order; user_version records how many steps have run
var schema = []string{
	`CREATE TABLE IF NOT EXISTS student (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  skills TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  preferred_sector TEXT NOT NULL DEFAULT '',
  academic_score REAL NOT NULL DEFAULT 0,
  category TEXT NOT NULL DEFAULT ''
);`,
	`CREATE TABLE IF NOT EXISTS posting (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL DEFAULT '',
  sector TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  district TEXT NOT NULL DEFAULT '',
  requirements TEXT NOT NULL DEFAULT '',
  stipend REAL NOT NULL DEFAULT 0,
  capacity INTEGER NOT NULL DEFAULT 0,
  min_eligibility_percent REAL
);`,
}

// Migrate applies pending schema steps and returns how many ran
func (d *DB) Migrate(ctx context.Context) (int, error) {
	tx, err := d.pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var version int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	ran := 0
	for i := version; i < len(schema); i++ {
		if _, err := tx.ExecContext(ctx, schema[i]); err != nil {
			return 0, fmt.Errorf("failed to apply schema step %d: %w", i+1, err)
		}
		ran++
	}

	if ran == 0 {
		return 0, tx.Commit()
	}

	// PRAGMA does not accept bound parameters
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d;`, len(schema))); err != nil {
		return 0, fmt.Errorf("failed to set schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit migration: %w", err)
	}
	return ran, nil
}
