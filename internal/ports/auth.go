package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/hearthkeep/hearth/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps a provider identity to an application role.
type RoleMapper interface {
	Map(email string) domainauth.Role
}

// CSRFRecord is the stored anti-forgery token for one CSRF session.
type CSRFRecord struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// CSRFStore persists anti-forgery tokens keyed by CSRF session id.
// Set with a ttl of zero keeps the record until explicitly deleted.
// A Set losing a race to a concurrent Set for the same key is acceptable:
// both writers hold the same client-issued session id and either token is
// equally valid for that client's subsequent requests.
type CSRFStore interface {
	Get(ctx context.Context, sessionID string) (CSRFRecord, error)
	Set(ctx context.Context, sessionID string, rec CSRFRecord, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// ErrCSRFRecordNotFound is returned by CSRFStore.Get when no record exists.
type csrfNotFoundError struct{}

func (csrfNotFoundError) Error() string { return "csrf record not found" }

// ErrCSRFRecordNotFound is the sentinel all CSRFStore implementations return
// for a missing or expired record.
var ErrCSRFRecordNotFound error = csrfNotFoundError{}
