// Package database wraps the PostgreSQL connection pool used by the
// postgres storage backend.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the PostgreSQL connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Console traffic is light; keep the pool small.
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate creates the console state tables.
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS api_keys (
			position     INTEGER NOT NULL,
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			secret       TEXT NOT NULL,
			created_on   TEXT NOT NULL,
			last_used_on TEXT,
			status       TEXT NOT NULL DEFAULT 'active'
		);`,

		`CREATE TABLE IF NOT EXISTS console_sessions (
			slot    INTEGER PRIMARY KEY CHECK (slot = 1),
			payload TEXT NOT NULL
		);`,

		`CREATE INDEX IF NOT EXISTS idx_api_keys_status ON api_keys(status);`,
	}

	for _, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w\nQuery: %s", err, migration)
		}
	}

	return nil
}
