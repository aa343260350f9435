package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/mirelio/api-console/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore keeps console state in a single local database file, the
// closest durable analogue to the browser storage this service replaces.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Info().Str("path", path).Msg("SQLite store initialized")
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) LoadKeys(ctx context.Context) ([]models.APIKey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, secret, created_on, last_used_on, status
		FROM api_keys ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	keys := make([]models.APIKey, 0)
	for rows.Next() {
		var k models.APIKey
		var lastUsed sql.NullString
		if err := rows.Scan(&k.ID, &k.Name, &k.Secret, &k.CreatedOn, &lastUsed, &k.Status); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		k.LastUsedOn = lastUsed.String
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *SQLiteStore) SaveKeys(ctx context.Context, keys []models.APIKey) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM api_keys"); err != nil {
		return fmt.Errorf("failed to clear keys: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO api_keys (position, id, name, secret, created_on, last_used_on, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, k := range keys {
		lastUsed := sql.NullString{String: k.LastUsedOn, Valid: k.LastUsedOn != ""}
		if _, err := stmt.ExecContext(ctx, i, k.ID, k.Name, k.Secret, k.CreatedOn, lastUsed, k.Status); err != nil {
			return fmt.Errorf("failed to insert key %s: %w", k.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadSession(ctx context.Context) (*models.AuthToken, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM console_sessions WHERE slot = 1").Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var token models.AuthToken
	if err := json.Unmarshal([]byte(payload), &token); err != nil {
		log.Warn().Err(err).Msg("Corrupt session payload, discarding")
		_, _ = s.db.ExecContext(ctx, "DELETE FROM console_sessions WHERE slot = 1")
		return nil, nil
	}
	return &token, nil
}

func (s *SQLiteStore) SaveSession(ctx context.Context, token *models.AuthToken) error {
	payload, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO console_sessions (slot, payload) VALUES (1, ?)
		ON CONFLICT (slot) DO UPDATE SET payload = excluded.payload
	`, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM console_sessions WHERE slot = 1"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
