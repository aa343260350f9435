package store

import (
	"context"
	"sync"

	"github.com/mirelio/api-console/internal/models"
)

// MemoryStore is the in-process backend used by tests and ephemeral
// deployments. State vanishes on restart.
type MemoryStore struct {
	mu      sync.Mutex
	keys    []models.APIKey
	session *models.AuthToken
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadKeys(ctx context.Context) ([]models.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.APIKey, len(s.keys))
	copy(out, s.keys)
	return out, nil
}

func (s *MemoryStore) SaveKeys(ctx context.Context, keys []models.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys = make([]models.APIKey, len(keys))
	copy(s.keys, keys)
	return nil
}

func (s *MemoryStore) LoadSession(ctx context.Context) (*models.AuthToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, nil
	}
	token := *s.session
	return &token, nil
}

func (s *MemoryStore) SaveSession(ctx context.Context, token *models.AuthToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := *token
	s.session = &t
	return nil
}

func (s *MemoryStore) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
