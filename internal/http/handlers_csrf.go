package httpx

import (
	"net/http"

	"github.com/hearthkeep/hearth/internal/service"
)

// CSRFHandlers provides HTTP handlers for anti-forgery token issuance.
type CSRFHandlers struct {
	Svc          *service.CSRFService
	CookieDomain string
}

// Issue handles the token issuance endpoint.
// GET /api/csrf.
//
// It sets two cookies: the HTTP-only csrf_session id and the script-readable
// csrf_token, and also returns the token in the body for clients that prefer
// reading it there. Issuance is idempotent for a live session, so every open
// tab converges on the same pair.
func (h *CSRFHandlers) Issue(w http.ResponseWriter, r *http.Request) {
	issued, err := h.Svc.Issue(r.Context(), cookieValue(r, CSRFSessionCookieName))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "csrf_issue_failed", Err: err})
		return
	}

	isSecure := isSecureRequest(r)
	maxAge := int(h.Svc.TTL().Seconds())

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFSessionCookieName,
		Value:    issued.SessionID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteStrictMode, // Strict for CSRF cookies
		MaxAge:   maxAge,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFTokenCookieName,
		Value:    issued.Token,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: false, // Must be readable by JavaScript to echo it in the header
		Secure:   isSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	})

	WriteJSON(w, http.StatusOK, map[string]string{"token": issued.Token})
}
