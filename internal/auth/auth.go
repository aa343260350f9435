// Package auth implements the guest sign-in flow. There is exactly one
// user, the guest; login mints a short-lived HS256 token for it and the
// session is persisted so a restart does not log the guest out.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/mirelio/api-console/internal/models"
	"github.com/mirelio/api-console/internal/store"
)

const (
	// GuestUserID is the only identity the console knows.
	GuestUserID    = "guest_user"
	guestUserEmail = "guest@example.com"
	guestUserName  = "Guest User"

	tokenType = "Bearer"
)

var (
	// ErrInvalidToken covers malformed, mis-signed and expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims is the JWT payload carried by console access tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Service mints and validates guest sessions.
type Service struct {
	secret []byte
	ttl    time.Duration
	st     store.SessionStore
	now    func() time.Time
}

// Option adjusts a Service; tests use it to pin the clock.
type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(secret string, ttl time.Duration, st store.SessionStore, opts ...Option) *Service {
	s := &Service{
		secret: []byte(secret),
		ttl:    ttl,
		st:     st,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GuestUser returns the fixed guest identity.
func GuestUser() models.User {
	return models.User{
		ID:    GuestUserID,
		Email: guestUserEmail,
		Name:  guestUserName,
	}
}

// Login mints a fresh guest token and persists the session envelope.
func (s *Service) Login(ctx context.Context) (models.AuthToken, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		UserID: GuestUserID,
		Email:  guestUserEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Subject:   GuestUserID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return models.AuthToken{}, fmt.Errorf("failed to sign token: %w", err)
	}

	envelope := models.AuthToken{
		AccessToken: signed,
		TokenType:   tokenType,
		ExpiresIn:   int64(s.ttl.Seconds()),
		ExpiresAt:   expiresAt.UnixMilli(),
		User:        GuestUser(),
	}

	if err := s.st.SaveSession(ctx, &envelope); err != nil {
		return models.AuthToken{}, fmt.Errorf("failed to persist session: %w", err)
	}

	log.Info().Str("user_id", GuestUserID).Time("expires_at", expiresAt).Msg("guest session created")
	return envelope, nil
}

// Validate parses and verifies an access token, returning its claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Session returns the persisted session if it is still valid. Expired
// or corrupt sessions are cleared and reported as absent.
func (s *Service) Session(ctx context.Context) (*models.AuthToken, error) {
	envelope, err := s.st.LoadSession(ctx)
	if err != nil {
		return nil, err
	}
	if envelope == nil {
		return nil, nil
	}

	if _, err := s.Validate(envelope.AccessToken); err != nil {
		log.Warn().Msg("discarding stale persisted session")
		if err := s.st.ClearSession(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return envelope, nil
}

// Logout drops the persisted session. Logging out when no session
// exists is not an error.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.st.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	log.Info().Str("user_id", GuestUserID).Msg("guest session cleared")
	return nil
}
