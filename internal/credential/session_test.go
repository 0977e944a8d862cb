package credential

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func writeToken(t *testing.T, token string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.token")
	require.NoError(t, os.WriteFile(path, []byte(token+"\n"), 0o600))
	return path
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	s, err := token.SignedString([]byte("portal-secret"))
	require.NoError(t, err)
	return s
}

func TestSessionProviderMissingFile(t *testing.T) {
	p := NewSessionProvider(filepath.Join(t.TempDir(), "nope"))

	cred, err := p.Credential(context.Background())
	require.NoError(t, err)
	require.Nil(t, cred)

	status, err := p.Status(context.Background())
	require.NoError(t, err)
	require.False(t, status.Authenticated)
	require.Equal(t, StateNotAuthenticated, status.State)
}

func TestSessionProviderLiveJWT(t *testing.T) {
	expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)
	p := NewSessionProvider(writeToken(t, signedToken(t, expiresAt)))

	cred, err := p.Credential(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cred)
	require.True(t, expiresAt.Equal(cred.ExpiresAt))

	status, err := p.Status(context.Background())
	require.NoError(t, err)
	require.True(t, status.Authenticated)
	require.Equal(t, StateAuthenticated, status.State)
}

func TestSessionProviderExpiredJWT(t *testing.T) {
	p := NewSessionProvider(writeToken(t, signedToken(t, time.Now().Add(-time.Minute))))

	cred, err := p.Credential(context.Background())
	require.NoError(t, err)
	require.Nil(t, cred)

	status, err := p.Status(context.Background())
	require.NoError(t, err)
	require.False(t, status.Authenticated)
	require.Equal(t, StateExpired, status.State)
}

func TestSessionProviderOpaqueToken(t *testing.T) {
	p := NewSessionProvider(writeToken(t, "opaque-session-cookie-value"))

	cred, err := p.Credential(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cred)
	require.Equal(t, "opaque-session-cookie-value", cred.Token)
	require.True(t, cred.ExpiresAt.IsZero())
}

func TestStaticProvider(t *testing.T) {
	p := &StaticProvider{Token: "abc"}
	cred, err := p.Credential(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc", cred.Token)

	empty := &StaticProvider{}
	cred, err = empty.Credential(context.Background())
	require.NoError(t, err)
	require.Nil(t, cred)
}
