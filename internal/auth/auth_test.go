package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirelio/api-console/internal/store"
)

const testSecret = "test-secret"

func TestLogin(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(testSecret, time.Hour, st)
	ctx := context.Background()

	token, err := svc.Login(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int64(3600), token.ExpiresIn)
	assert.Equal(t, GuestUserID, token.User.ID)
	assert.Equal(t, "guest@example.com", token.User.Email)
	assert.Equal(t, "Guest User", token.User.Name)

	// The full session envelope is persisted through the store.
	persisted, err := st.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, token, *persisted)
}

func TestValidate(t *testing.T) {
	svc := NewService(testSecret, time.Hour, store.NewMemoryStore())

	token, err := svc.Login(context.Background())
	require.NoError(t, err)

	claims, err := svc.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, GuestUserID, claims.UserID)
	assert.Equal(t, "guest@example.com", claims.Email)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewService(testSecret, time.Hour, store.NewMemoryStore())

	_, err := svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	minted := NewService(testSecret, time.Hour, store.NewMemoryStore())
	token, err := minted.Login(context.Background())
	require.NoError(t, err)

	other := NewService("different-secret", time.Hour, store.NewMemoryStore())
	_, err = other.Validate(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	issued := time.Date(2025, 8, 31, 10, 0, 0, 0, time.UTC)
	now := issued

	svc := NewService(testSecret, time.Hour, store.NewMemoryStore(),
		WithClock(func() time.Time { return now }))

	token, err := svc.Login(context.Background())
	require.NoError(t, err)

	now = issued.Add(2 * time.Hour)
	_, err = svc.Validate(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionDiscardsExpired(t *testing.T) {
	issued := time.Date(2025, 8, 31, 10, 0, 0, 0, time.UTC)
	now := issued

	st := store.NewMemoryStore()
	svc := NewService(testSecret, time.Hour, st,
		WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_, err := svc.Login(ctx)
	require.NoError(t, err)

	now = issued.Add(2 * time.Hour)
	session, err := svc.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	// Cleared from the store, not just filtered.
	persisted, err := st.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

func TestSessionRoundTrip(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(testSecret, time.Hour, st)
	ctx := context.Background()

	token, err := svc.Login(ctx)
	require.NoError(t, err)

	session, err := svc.Session(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, token.AccessToken, session.AccessToken)
}

func TestLogout(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(testSecret, time.Hour, st)
	ctx := context.Background()

	_, err := svc.Login(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	session, err := svc.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	// Logout with no session is fine.
	assert.NoError(t, svc.Logout(ctx))
}
