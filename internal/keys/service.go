// Package keys implements the API key lifecycle: create, regenerate,
// revoke, delete. Mutations run through a simulated latency window to
// mirror the asynchronous feel of a real control plane; during that
// window a single shared advisory flag marks the service busy.
package keys

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mirelio/api-console/internal/models"
	"github.com/mirelio/api-console/internal/store"
)

var (
	// ErrNameRequired rejects creation with an empty or whitespace name.
	ErrNameRequired = errors.New("api key name is required")
	// ErrNotFound marks an id with no matching record.
	ErrNotFound = errors.New("api key not found")
)

// Sleeper waits out a simulated operation delay. The default honors
// context cancellation; tests swap in a no-op to run synchronously.
type Sleeper func(ctx context.Context, d time.Duration) error

func defaultSleeper(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Delays holds the per-operation simulated latency.
type Delays struct {
	Create     time.Duration
	Regenerate time.Duration
	Revoke     time.Duration
	Delete     time.Duration
}

// Service owns the in-memory key collection and writes it back to the
// store on every change. The collection is loaded once at construction.
type Service struct {
	st     store.KeyStore
	delays Delays
	sleep  Sleeper
	now    func() time.Time

	// operating is advisory only: it tells the UI layer to disable
	// further mutating actions, it does not serialize access. The
	// mutex below exists solely for memory safety of the slice.
	operating atomic.Bool

	mu   sync.Mutex
	keys []models.APIKey
}

// Option tweaks a Service; used by tests to inject clock and sleeper.
type Option func(*Service)

func WithSleeper(s Sleeper) Option {
	return func(svc *Service) { svc.sleep = s }
}

func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

// NewService loads the persisted collection and returns the service.
func NewService(ctx context.Context, st store.KeyStore, delays Delays, opts ...Option) (*Service, error) {
	keys, err := st.LoadKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load key collection: %w", err)
	}

	svc := &Service{
		st:     st,
		delays: delays,
		sleep:  defaultSleeper,
		now:    time.Now,
		keys:   keys,
	}
	for _, opt := range opts {
		opt(svc)
	}

	log.Info().Int("count", len(keys)).Msg("API key collection loaded")
	return svc, nil
}

// Operating reports whether a mutation is currently in flight.
func (s *Service) Operating() bool {
	return s.operating.Load()
}

// List returns a snapshot of the collection in insertion order.
func (s *Service) List() []models.APIKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.APIKey, len(s.keys))
	copy(out, s.keys)
	return out
}

// Get returns the record with the given id.
func (s *Service) Get(id string) (models.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range s.keys {
		if k.ID == id {
			return k, nil
		}
	}
	return models.APIKey{}, ErrNotFound
}

// ActiveKeyCount counts keys with active status.
func (s *Service) ActiveKeyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, k := range s.keys {
		if k.Active() {
			n++
		}
	}
	return n
}

// Create validates the name, waits out the simulated delay, then
// appends a fresh active key and persists the collection.
func (s *Service) Create(ctx context.Context, name string) (models.APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.APIKey{}, ErrNameRequired
	}

	s.operating.Store(true)
	defer s.operating.Store(false)

	if err := s.sleep(ctx, s.delays.Create); err != nil {
		return models.APIKey{}, err
	}

	secret, err := GenerateSecret()
	if err != nil {
		return models.APIKey{}, err
	}

	now := s.now()
	key := models.APIKey{
		Name:      name,
		Secret:    secret,
		CreatedOn: now.Format("2006-01-02"),
		Status:    models.KeyStatusActive,
	}

	s.mu.Lock()
	key.ID = s.nextID(now)
	s.keys = append(s.keys, key)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.st.SaveKeys(ctx, snapshot); err != nil {
		return models.APIKey{}, fmt.Errorf("failed to persist key collection: %w", err)
	}

	log.Info().Str("id", key.ID).Str("name", key.Name).Msg("API key created")
	return key, nil
}

// Regenerate replaces the secret and creation date of any existing
// record. Status is left untouched: a revoked key can be regenerated
// and stays revoked (current behavior, preserved pending product
// confirmation).
func (s *Service) Regenerate(ctx context.Context, id string) (models.APIKey, error) {
	return s.mutate(ctx, id, s.delays.Regenerate, func(k *models.APIKey) error {
		secret, err := GenerateSecret()
		if err != nil {
			return err
		}
		k.Secret = secret
		k.CreatedOn = s.now().Format("2006-01-02")
		return nil
	})
}

// Revoke moves a key to revoked status. Revoking an already revoked key
// is a no-op. The secret is retained; revocation is a usability gate,
// not secret erasure.
func (s *Service) Revoke(ctx context.Context, id string) (models.APIKey, error) {
	return s.mutate(ctx, id, s.delays.Revoke, func(k *models.APIKey) error {
		k.Status = models.KeyStatusRevoked
		return nil
	})
}

// Delete removes a record regardless of status.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.operating.Store(true)
	defer s.operating.Store(false)

	if err := s.sleep(ctx, s.delays.Delete); err != nil {
		return err
	}

	s.mu.Lock()
	found := false
	kept := s.keys[:0]
	for _, k := range s.keys {
		if k.ID == id {
			found = true
			continue
		}
		kept = append(kept, k)
	}
	s.keys = kept
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if !found {
		return ErrNotFound
	}
	if err := s.st.SaveKeys(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to persist key collection: %w", err)
	}

	log.Info().Str("id", id).Msg("API key deleted")
	return nil
}

func (s *Service) mutate(ctx context.Context, id string, delay time.Duration, fn func(*models.APIKey) error) (models.APIKey, error) {
	s.operating.Store(true)
	defer s.operating.Store(false)

	if err := s.sleep(ctx, delay); err != nil {
		return models.APIKey{}, err
	}

	s.mu.Lock()
	var updated *models.APIKey
	for i := range s.keys {
		if s.keys[i].ID == id {
			if err := fn(&s.keys[i]); err != nil {
				s.mu.Unlock()
				return models.APIKey{}, err
			}
			updated = &s.keys[i]
			break
		}
	}
	if updated == nil {
		s.mu.Unlock()
		return models.APIKey{}, ErrNotFound
	}
	result := *updated
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.st.SaveKeys(ctx, snapshot); err != nil {
		return models.APIKey{}, fmt.Errorf("failed to persist key collection: %w", err)
	}
	return result, nil
}

// nextID derives an id from the creation instant, bumping by a
// millisecond while it collides so ids stay unique within the
// collection. Caller holds the mutex.
func (s *Service) nextID(now time.Time) string {
	ms := now.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if !s.hasIDLocked(id) {
			return id
		}
		ms++
	}
}

func (s *Service) hasIDLocked(id string) bool {
	for _, k := range s.keys {
		if k.ID == id {
			return true
		}
	}
	return false
}

func (s *Service) snapshotLocked() []models.APIKey {
	out := make([]models.APIKey, len(s.keys))
	copy(out, s.keys)
	return out
}
