package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/viktorsm/audiokeep/internal/common"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func newProvider(t *testing.T) (*TokenFileProvider, *clockwork.FakeClock, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token.jwt")
	clock := clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0))
	return NewTokenFileProvider(path, clock), clock, path
}

func TestAcceptStoresValidToken(t *testing.T) {
	p, clock, path := newProvider(t)
	token := signedToken(t, clock.Now().Add(time.Hour))

	require.NoError(t, p.Accept(token))
	require.True(t, p.IsAuthenticated())

	got, err := p.AccessToken()
	require.NoError(t, err)
	require.Equal(t, token, got)

	// persisted owner-only
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestAcceptRejectsExpiredToken(t *testing.T) {
	p, clock, _ := newProvider(t)
	token := signedToken(t, clock.Now().Add(-time.Minute))

	require.ErrorIs(t, p.Accept(token), common.ErrorTokenExpired)
	require.False(t, p.IsAuthenticated())
}

func TestAcceptRejectsGarbage(t *testing.T) {
	p, _, _ := newProvider(t)
	require.Error(t, p.Accept("not-a-jwt"))
}

func TestInitializeLoadsStoredToken(t *testing.T) {
	p, clock, path := newProvider(t)
	token := signedToken(t, clock.Now().Add(time.Hour))
	require.NoError(t, os.WriteFile(path, []byte(token+"\n"), 0o600))

	require.NoError(t, p.Initialize(context.Background()))
	require.True(t, p.IsAuthenticated())
}

func TestInitializeWithoutFileIsNotSignedIn(t *testing.T) {
	p, _, _ := newProvider(t)

	require.NoError(t, p.Initialize(context.Background()))
	require.False(t, p.IsAuthenticated())

	_, err := p.AccessToken()
	require.ErrorIs(t, err, common.ErrorNotSignedIn)
}

func TestInitializeTreatsCorruptTokenAsSignedOut(t *testing.T) {
	p, _, path := newProvider(t)
	require.NoError(t, os.WriteFile(path, []byte("scrambled"), 0o600))

	require.NoError(t, p.Initialize(context.Background()))
	require.False(t, p.IsAuthenticated())
}

func TestTokenExpiresAsClockAdvances(t *testing.T) {
	p, clock, _ := newProvider(t)
	require.NoError(t, p.Accept(signedToken(t, clock.Now().Add(time.Hour))))
	require.True(t, p.IsAuthenticated())

	clock.Advance(2 * time.Hour)
	require.False(t, p.IsAuthenticated())

	_, err := p.AccessToken()
	require.ErrorIs(t, err, common.ErrorTokenExpired)
}
