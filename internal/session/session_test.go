package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/blogdash/pkg/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv(TokenEnv, "")
	return NewStore(filepath.Join(t.TempDir(), "data", "session.yaml"))
}

func TestLoad_Missing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load()
	require.ErrorIs(t, err, ErrNoSession)
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	saved, err := s.Save(domain.AuthResponse{Token: "jwt", Role: "admin"}, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, now.Add(MaxAge), saved.ExpiresAt)

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "jwt", got.Token)
	assert.Equal(t, "admin", got.Role)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.True(t, got.IsAdmin())
}

func TestLoad_ExpiredRemovesFile(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, err := s.Save(domain.AuthResponse{Token: "jwt", Role: "user"}, "ada@example.com")
	require.NoError(t, err)

	now = now.Add(MaxAge)
	_, err = s.Load()
	require.ErrorIs(t, err, ErrNoSession)

	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "expired session file should be removed")
}

func TestLoad_EmptyToken(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o700))
	require.NoError(t, os.WriteFile(s.Path(), []byte("role: user\n"), 0o600))

	_, err := s.Load()
	require.ErrorIs(t, err, ErrNoSession)
}

func TestLoad_Corrupt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o700))
	require.NoError(t, os.WriteFile(s.Path(), []byte("token: [unclosed"), 0o600))

	_, err := s.Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Save(domain.AuthResponse{Token: "from-file", Role: "admin"}, "ada@example.com")
	require.NoError(t, err)

	t.Setenv(TokenEnv, "from-env")

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", got.Token)
	assert.Equal(t, "admin", got.Role, "other fields still come from the file")
}

func TestLoad_EnvWithoutFile(t *testing.T) {
	s := newTestStore(t)
	t.Setenv(TokenEnv, "from-env")

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", got.Token)
	assert.False(t, got.Expired(time.Now()))
}

func TestSave_EmptyToken(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save(domain.AuthResponse{Role: "user"}, "ada@example.com")
	require.Error(t, err)
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Clear(), "clearing an absent session is fine")

	_, err := s.Save(domain.AuthResponse{Token: "jwt"}, "")
	require.NoError(t, err)
	require.NoError(t, s.Clear())

	_, err = s.Load()
	require.ErrorIs(t, err, ErrNoSession)
}
