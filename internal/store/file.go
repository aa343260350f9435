package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mirelio/api-console/internal/models"
)

const (
	keysFileName    = "api_keys.json"
	sessionFileName = "auth_token.json"
)

// FileStore keeps each storage slot in its own JSON file under a state
// directory. A corrupt file is discarded and treated as empty, never
// surfaced as a caller-visible failure.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the state directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) LoadKeys(ctx context.Context) ([]models.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, keysFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.APIKey{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key collection: %w", err)
	}

	var keys []models.APIKey
	if err := json.Unmarshal(data, &keys); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Corrupt key collection, starting empty")
		return []models.APIKey{}, nil
	}
	return keys, nil
}

func (s *FileStore) SaveKeys(ctx context.Context, keys []models.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(keysFileName, keys)
}

func (s *FileStore) LoadSession(ctx context.Context) (*models.AuthToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, sessionFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var token models.AuthToken
	if err := json.Unmarshal(data, &token); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Corrupt session, discarding")
		_ = os.Remove(path)
		return nil, nil
	}
	return &token, nil
}

func (s *FileStore) SaveSession(ctx context.Context, token *models.AuthToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(sessionFileName, token)
}

func (s *FileStore) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dir, sessionFileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

// writeJSON replaces a slot atomically: write a temp file, then rename
// over the target so a crash never leaves a half-written slot.
func (s *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
