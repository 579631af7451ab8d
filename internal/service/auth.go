package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearthkeep/hearth/internal/core"
	"github.com/hearthkeep/hearth/internal/data"
	domainauth "github.com/hearthkeep/hearth/internal/domain/auth"
	"github.com/hearthkeep/hearth/internal/domain/model"
	apperrors "github.com/hearthkeep/hearth/internal/errors"
	"github.com/hearthkeep/hearth/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
	Users    core.UserRepository
}

// AuthService orchestrates authentication flows: provider exchange, user row
// provisioning, session persistence, and per-request principal resolution.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	roles    ports.RoleMapper
	users    core.UserRepository
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		roles:    opts.Roles,
		users:    opts.Users,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth
// URL with state and nonce for the callback to verify.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin exchanges the code for an identity, provisions or refreshes
// the application user row, and persists a session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	role := s.roles.Map(identity.Email)
	if _, upsertErr := s.users.Upsert(ctx, model.UpsertUserRequest{
		Subject: identity.Subject,
		Email:   identity.Email,
		Role:    role,
	}); upsertErr != nil {
		return nil, fmt.Errorf("provision user: %w", upsertErr)
	}

	session := domainauth.Session{
		ID:        uuid.New().String(),
		Subject:   identity.Subject,
		Email:     identity.Email,
		ExpiresAt: identity.ExpiresAt,
	}
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	return &CompleteLoginResult{Session: session}, nil
}

// GetSession retrieves a session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session. The handler separately drops the browser's
// anti-forgery record and clears the cookies.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ResolvePrincipal turns a session id into the per-request principal.
// Failure modes are distinct: a missing, invalid, or expired session is
// Unauthenticated; a valid session whose subject has no application user row
// is UserNotFound. Read-only, no retries.
func (s *AuthService) ResolvePrincipal(ctx context.Context, sessionID string) (domainauth.Principal, error) {
	if sessionID == "" {
		return domainauth.Principal{}, apperrors.Unauthenticated("no session")
	}

	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return domainauth.Principal{}, apperrors.Unauthenticated("invalid or expired session")
	}

	user, err := s.users.GetBySubject(ctx, sess.Subject)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return domainauth.Principal{}, apperrors.UserNotFound("no application user for session")
		}
		return domainauth.Principal{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "resolve principal")
	}

	return user.Principal(), nil
}
