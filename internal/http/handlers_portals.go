package httpx

import (
	"errors"
	"net/http"

	"github.com/hearthkeep/hearth/internal/data"
	domainauth "github.com/hearthkeep/hearth/internal/domain/auth"
	"github.com/hearthkeep/hearth/internal/domain/model"
	"github.com/hearthkeep/hearth/internal/service"
)

// PortalHandlers provides HTTP handlers for portal credential operations.
// Every route is owner-scoped: the owner id comes from the gate-resolved
// principal in the request context, never from the request body.
type PortalHandlers struct {
	Svc *service.PortalService
}

// Create handles HTTP requests to create a new portal credential.
func (h *PortalHandlers) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromRequest(r)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.CreatePortalRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	portal, err := h.Svc.Create(r.Context(), principal.ID, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrPortalNameExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "name_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, portal)
}

// List handles HTTP requests to list the caller's portals with pagination.
// Passwords are never included in list responses.
func (h *PortalHandlers) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromRequest(r)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	limit, offset := ParseLimitOffset(r, DefaultPageSize, MaxPageSize)

	portals, err := h.Svc.List(r.Context(), principal.ID, limit, offset)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"portals": portals,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetByID handles HTTP requests to get a portal by ID, password unsealed.
func (h *PortalHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := h.principalAndID(w, r)
	if !ok {
		return
	}

	portal, err := h.Svc.GetByID(r.Context(), principal.ID, id)
	if err != nil {
		if errors.Is(err, data.ErrPortalNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "portal_not_found", Err: err})
			return
		}
		RenderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, portal)
}

// Update handles HTTP requests to update a portal credential.
func (h *PortalHandlers) Update(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := h.principalAndID(w, r)
	if !ok {
		return
	}

	var req model.UpdatePortalRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	portal, err := h.Svc.Update(r.Context(), principal.ID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrPortalNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "portal_not_found", Err: err})
		case errors.Is(err, data.ErrPortalNameExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "name_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, portal)
}

// Delete handles HTTP requests to delete a portal credential.
func (h *PortalHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := h.principalAndID(w, r)
	if !ok {
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), principal.ID, id)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}

	if !deleted {
		WriteError(
			w,
			ErrorParams{Code: http.StatusNotFound, ErrCode: "portal_not_found", Err: errors.New("portal not found")},
		)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// principalAndID extracts the gate principal and the {id} path value,
// writing the error response itself when either is missing.
func (h *PortalHandlers) principalAndID(
	w http.ResponseWriter,
	r *http.Request,
) (domainauth.Principal, string, bool) {
	principal, found := PrincipalFromRequest(r)
	if !found {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return domainauth.Principal{}, "", false
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("portal id is required")},
		)
		return domainauth.Principal{}, "", false
	}

	return principal, id, true
}
