package credential

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionProvider reads the portal session token from a file maintained by
// the browser integration. When the token is a JWT its exp claim is
// inspected (without signature verification — we do not hold the portal's
// signing key) to detect expiry; opaque tokens are assumed live.
type SessionProvider struct {
	path string

	// now is a seam for tests.
	now func() time.Time
}

func NewSessionProvider(path string) *SessionProvider {
	return &SessionProvider{path: path, now: time.Now}
}

func (p *SessionProvider) Credential(ctx context.Context) (*Credential, error) {
	token, err := p.readToken()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	expiresAt := tokenExpiry(token)
	if !expiresAt.IsZero() && !p.now().Before(expiresAt) {
		return nil, nil
	}

	return &Credential{Token: token, ExpiresAt: expiresAt}, nil
}

func (p *SessionProvider) Status(ctx context.Context) (Status, error) {
	token, err := p.readToken()
	if err != nil {
		return Status{}, err
	}
	if token == "" {
		return Status{
			State:   StateNotAuthenticated,
			Message: "no active portal session; sign in to the portal first",
		}, nil
	}

	expiresAt := tokenExpiry(token)
	if !expiresAt.IsZero() && !p.now().Before(expiresAt) {
		return Status{
			State:   StateExpired,
			Message: fmt.Sprintf("portal session expired at %s; sign in again", expiresAt.Format(time.RFC3339)),
		}, nil
	}

	return Status{
		Authenticated: true,
		State:         StateAuthenticated,
		Message:       "portal session is active",
	}, nil
}

func (p *SessionProvider) readToken() (string, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("session token read error: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// tokenExpiry extracts the exp claim from a JWT without verifying the
// signature. Returns the zero time for opaque or claimless tokens.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
