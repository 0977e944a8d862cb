// Package credential supplies the portal session bearer credential to the
// fetch layer. The credential is obtained from an externally authenticated
// browser session; this package never performs a login itself.
package credential

import (
	"context"
	"time"
)

// Credential is a bearer token for the registry portal together with its
// expiry, when known. A zero ExpiresAt means the token is opaque and carries
// no readable expiry.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Session states reported on the auth-status surface.
const (
	StateAuthenticated    = "authenticated"
	StateNotAuthenticated = "not_authenticated"
	StateExpired          = "session_expired"
)

// Status describes the session for the auth-status reply.
type Status struct {
	Authenticated bool
	State         string
	Message       string
}

// Provider yields the current session credential.
type Provider interface {
	// Credential returns the current credential, or nil when the session is
	// missing or expired. Absence is not an error.
	Credential(ctx context.Context) (*Credential, error)

	// Status describes the current session in human-readable form.
	Status(ctx context.Context) (Status, error)
}
