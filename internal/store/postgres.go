package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/mirelio/api-console/internal/models"
	"github.com/mirelio/api-console/pkg/database"
)

// PostgresStore shares console state across replicas. Save semantics
// stay collection-wide (clear and rewrite in one transaction) so the
// behavior matches the other backends.
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) LoadKeys(ctx context.Context) ([]models.APIKey, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, name, secret, created_on, COALESCE(last_used_on, ''), status
		FROM api_keys ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	keys := make([]models.APIKey, 0)
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.Secret, &k.CreatedOn, &k.LastUsedOn, &k.Status); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) SaveKeys(ctx context.Context, keys []models.APIKey) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM api_keys"); err != nil {
		return fmt.Errorf("failed to clear keys: %w", err)
	}

	for i, k := range keys {
		var lastUsed *string
		if k.LastUsedOn != "" {
			lastUsed = &k.LastUsedOn
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO api_keys (position, id, name, secret, created_on, last_used_on, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, i, k.ID, k.Name, k.Secret, k.CreatedOn, lastUsed, k.Status)
		if err != nil {
			return fmt.Errorf("failed to insert key %s: %w", k.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) LoadSession(ctx context.Context) (*models.AuthToken, error) {
	var payload string
	err := s.db.Pool.QueryRow(ctx, "SELECT payload FROM console_sessions WHERE slot = 1").Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var token models.AuthToken
	if err := json.Unmarshal([]byte(payload), &token); err != nil {
		log.Warn().Err(err).Msg("Corrupt session payload, discarding")
		_, _ = s.db.Pool.Exec(ctx, "DELETE FROM console_sessions WHERE slot = 1")
		return nil, nil
	}
	return &token, nil
}

func (s *PostgresStore) SaveSession(ctx context.Context, token *models.AuthToken) error {
	payload, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO console_sessions (slot, payload) VALUES (1, $1)
		ON CONFLICT (slot) DO UPDATE SET payload = EXCLUDED.payload
	`, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *PostgresStore) ClearSession(ctx context.Context) error {
	if _, err := s.db.Pool.Exec(ctx, "DELETE FROM console_sessions WHERE slot = 1"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
