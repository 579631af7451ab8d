package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hearthkeep/hearth/internal/core"
	"github.com/hearthkeep/hearth/internal/domain/model"
)

// PortalServiceOptions groups dependencies for PortalService.
type PortalServiceOptions struct {
	Repo   core.PortalRepository
	Logger *slog.Logger // optional
}

// PortalService provides business logic for portal credential CRUD. Ownership
// scoping is enforced by the repository; this layer adds validation and
// logging that never touches the password value.
type PortalService struct {
	repo   core.PortalRepository
	logger *slog.Logger
}

// NewPortalService constructs a new PortalService.
func NewPortalService(opts PortalServiceOptions) (*PortalService, error) {
	if opts.Repo == nil {
		return nil, errors.New("PortalRepository is required")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "portal_service")
	}
	return &PortalService{repo: opts.Repo, logger: logger}, nil
}

// Create stores a new portal credential for the owner.
func (s *PortalService) Create(ctx context.Context, ownerID string, req model.CreatePortalRequest) (*model.Portal, error) {
	portal, err := s.repo.Create(ctx, ownerID, req)
	if err != nil {
		return nil, fmt.Errorf("create portal: %w", err)
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "portal created", "id", portal.ID, "owner_id", ownerID)
	}
	return portal, nil
}

// GetByID retrieves one portal with its password unsealed.
func (s *PortalService) GetByID(ctx context.Context, ownerID, id string) (*model.Portal, error) {
	portal, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("get portal: %w", err)
	}
	return portal, nil
}

// List retrieves the owner's portals without passwords.
func (s *PortalService) List(ctx context.Context, ownerID string, limit, offset int) ([]*model.Portal, error) {
	portals, err := s.repo.List(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list portals: %w", err)
	}
	return portals, nil
}

// Update modifies a portal credential.
func (s *PortalService) Update(ctx context.Context, ownerID, id string, req model.UpdatePortalRequest) (*model.Portal, error) {
	portal, err := s.repo.Update(ctx, ownerID, id, req)
	if err != nil {
		return nil, fmt.Errorf("update portal: %w", err)
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "portal updated", "id", id, "owner_id", ownerID)
	}
	return portal, nil
}

// Delete removes a portal credential.
func (s *PortalService) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return false, fmt.Errorf("delete portal: %w", err)
	}
	if s.logger != nil && deleted {
		s.logger.DebugContext(ctx, "portal deleted", "id", id, "owner_id", ownerID)
	}
	return deleted, nil
}
