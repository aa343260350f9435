// Package store persists console state: the API key collection and the
// single guest session. It is the server-side stand-in for the
// browser's local key-value storage, kept behind a small repository
// interface so the medium is swappable (file, memory, SQLite,
// Postgres) without touching business logic.
package store

import (
	"context"
	"fmt"

	"github.com/mirelio/api-console/internal/config"
	"github.com/mirelio/api-console/internal/models"
	"github.com/mirelio/api-console/pkg/database"
)

// KeyStore loads and saves the whole key collection. The collection is
// read once at service start and rewritten on every change; there is no
// per-record update path and no cross-process coordination, so two
// writers can overwrite each other (a known, accepted race).
type KeyStore interface {
	LoadKeys(ctx context.Context) ([]models.APIKey, error)
	SaveKeys(ctx context.Context, keys []models.APIKey) error
}

// SessionStore holds at most one guest session. LoadSession returns
// (nil, nil) when no session is stored.
type SessionStore interface {
	LoadSession(ctx context.Context) (*models.AuthToken, error)
	SaveSession(ctx context.Context, token *models.AuthToken) error
	ClearSession(ctx context.Context) error
}

// Store combines both persistence concerns behind one handle.
type Store interface {
	KeyStore
	SessionStore
	Close() error
}

// Open constructs the backend selected by the configuration.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile:
		return NewFileStore(cfg.StateDir)
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
