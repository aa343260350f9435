package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirelio/api-console/internal/models"
)

func sampleKeys() []models.APIKey {
	return []models.APIKey{
		{ID: "1718035200000", Name: "Production", Secret: "sk_live_abc", CreatedOn: "2025-06-10", LastUsedOn: "2025-08-30", Status: models.KeyStatusActive},
		{ID: "1719590400000", Name: "Staging", Secret: "sk_live_def", CreatedOn: "2025-06-28", Status: models.KeyStatusActive},
		{ID: "1721404800000", Name: "CI Runner", Secret: "sk_live_ghi", CreatedOn: "2025-07-19", Status: models.KeyStatusRevoked},
	}
}

func sampleToken() *models.AuthToken {
	return &models.AuthToken{
		AccessToken: "token",
		TokenType:   "Bearer",
		ExpiresIn:   3600,
		ExpiresAt:   1756684800000,
		User:        models.User{ID: "guest_user", Email: "guest@example.com", Name: "Guest User"},
	}
}

// exerciseStore runs the shared contract every backend must satisfy.
func exerciseStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	// Empty store reads back empty, not an error.
	keys, err := st.LoadKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	session, err := st.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	// Key round trip preserves order and every field.
	want := sampleKeys()
	require.NoError(t, st.SaveKeys(ctx, want))
	got, err := st.LoadKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Overwrite replaces, not appends.
	require.NoError(t, st.SaveKeys(ctx, want[:1]))
	got, err = st.LoadKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, want[:1], got)

	// Session round trip.
	token := sampleToken()
	require.NoError(t, st.SaveSession(ctx, token))
	loaded, err := st.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, *token, *loaded)

	// Clear is idempotent.
	require.NoError(t, st.ClearSession(ctx))
	loaded, err = st.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
	require.NoError(t, st.ClearSession(ctx))
}

func TestMemoryStore(t *testing.T) {
	st := NewMemoryStore()
	defer st.Close()
	exerciseStore(t, st)
}

func TestFileStore(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer st.Close()
	exerciseStore(t, st)
}

func TestSQLiteStore(t *testing.T) {
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "console.db"))
	require.NoError(t, err)
	defer st.Close()
	exerciseStore(t, st)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	st, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, st.SaveKeys(ctx, sampleKeys()))
	require.NoError(t, st.Close())

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	keys, err := reopened.LoadKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleKeys(), keys)
}

func TestFileStoreRecoversFromCorruptKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "api_keys.json"), []byte("{not json"), 0o600))

	st, err := NewFileStore(dir)
	require.NoError(t, err)
	defer st.Close()

	keys, err := st.LoadKeys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFileStoreRecoversFromCorruptSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auth_token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	st, err := NewFileStore(dir)
	require.NoError(t, err)
	defer st.Close()

	session, err := st.LoadSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)

	// The corrupt file is removed so it cannot come back.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.db")
	ctx := context.Background()

	st, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, st.SaveKeys(ctx, sampleKeys()))
	require.NoError(t, st.SaveSession(ctx, sampleToken()))
	require.NoError(t, st.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	keys, err := reopened.LoadKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleKeys(), keys)

	session, err := reopened.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, *sampleToken(), *session)
}
