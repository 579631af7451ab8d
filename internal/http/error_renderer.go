package httpx

import (
	"errors"
	"net/http"

	"github.com/hearthkeep/hearth/internal/adapters/remotefn"
	"github.com/hearthkeep/hearth/internal/data"
	"github.com/hearthkeep/hearth/internal/data/cryptoutil"
	apperrors "github.com/hearthkeep/hearth/internal/errors"
)

// RenderError classifies an error from the service layer and writes the
// matching JSON response. Crypto failures are surfaced as 502 with a stable
// code and no detail beyond the typed message: the envelope, key material,
// and plaintext never reach the client.
func RenderError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	switch {
	case apperrors.IsUnauthenticated(err):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: err})
	case apperrors.IsUserNotFound(err):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "user_not_found", Err: err})
	case apperrors.IsForbidden(err):
		WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "insufficient_permissions", Err: err})
	case apperrors.IsValidation(err), isValidationError(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
	case apperrors.IsNotFound(err), errors.Is(err, data.ErrPortalNotFound), errors.Is(err, data.ErrUserNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case apperrors.IsConflict(err), errors.Is(err, data.ErrPortalNameExists):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "name_conflict", Err: err})
	case isCryptoError(err):
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "crypto_failure", Err: err})
	case isRemoteError(err):
		renderRemoteError(w, err)
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: err})
	}
}

func isCryptoError(err error) bool {
	return apperrors.IsCrypto(err) ||
		errors.Is(err, cryptoutil.ErrKeyNotConfigured) ||
		errors.Is(err, cryptoutil.ErrKeyMalformed) ||
		errors.Is(err, cryptoutil.ErrMalformedEnvelope) ||
		errors.Is(err, cryptoutil.ErrDecryptFailed)
}

func isRemoteError(err error) bool {
	var svcErr *remotefn.ServiceError
	return apperrors.IsRemoteService(err) || errors.As(err, &svcErr)
}

// renderRemoteError surfaces a downstream rejection as 502 and forwards the
// remote status and details so the caller can distinguish rejection classes.
func renderRemoteError(w http.ResponseWriter, err error) {
	var svcErr *remotefn.ServiceError
	if errors.As(err, &svcErr) {
		WriteJSON(w, http.StatusBadGateway, map[string]any{
			"error":         "remote_service_error",
			"message":       err.Error(),
			"remote_status": svcErr.Status,
			"details":       svcErr.Details,
		})
		return
	}
	WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "remote_service_error", Err: err})
}
