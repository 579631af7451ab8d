package core

import (
	"context"

	domainauth "github.com/hearthkeep/hearth/internal/domain/auth"
	"github.com/hearthkeep/hearth/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// UserRepository defines the interface for application user data operations.
type UserRepository interface {
	// GetBySubject fetches the user row for an IdP subject id.
	// Returns data.ErrUserNotFound when the identity has no application record.
	GetBySubject(ctx context.Context, subject string) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]*model.User, error)
	Upsert(ctx context.Context, req model.UpsertUserRequest) (*model.User, error)
}

// PortalRepository defines the interface for portal credential data operations.
// Implementations seal the password field at rest; all reads and writes are
// scoped to the owning user.
type PortalRepository interface {
	Create(ctx context.Context, ownerID string, req model.CreatePortalRequest) (*model.Portal, error)
	GetByID(ctx context.Context, ownerID, id string) (*model.Portal, error)
	List(ctx context.Context, ownerID string, limit, offset int) ([]*model.Portal, error)
	Update(ctx context.Context, ownerID, id string, req model.UpdatePortalRequest) (*model.Portal, error)
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}

// SessionResolver resolves a session id into an authenticated principal.
// The concrete implementation is service.AuthService; the gate depends on
// this narrow view so tests can observe whether resolution was attempted.
type SessionResolver interface {
	ResolvePrincipal(ctx context.Context, sessionID string) (domainauth.Principal, error)
}
