package httpx

import (
	"errors"
	"net/http"

	"github.com/hearthkeep/hearth/internal/adapters/remotefn"
	"github.com/hearthkeep/hearth/internal/core"
)

// AdminHandlers provides HTTP handlers for admin-only operations. Role
// enforcement happens at the gate; these handlers assume an admin principal.
type AdminHandlers struct {
	Users core.UserRepository
	// Tokens is the service-scoped remote proxy; nil when the remote
	// deployment or shared secret is not configured.
	Tokens *remotefn.TokenService
}

// ListUsers handles HTTP requests to list application users with pagination.
// GET /api/admin/users.
func (h *AdminHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, DefaultPageSize, MaxPageSize)

	users, err := h.Users.List(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}

// RevokeIntegration asks the remote function to revoke the stored provider
// grant (e.g. the Google Calendar refresh token).
// POST /api/admin/integrations/{provider}/revoke.
func (h *AdminHandlers) RevokeIntegration(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")
	if provider == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation_failed",
			Err:     errors.New("provider is required and cannot be empty"),
		})
		return
	}

	if err := h.Tokens.RevokeToken(r.Context(), provider); err != nil {
		RenderError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "revoked", "provider": provider})
}
