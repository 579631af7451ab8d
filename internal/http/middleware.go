package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/hearthkeep/hearth/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// GateAuthorizer is the slice of GateService the middleware needs.
type GateAuthorizer interface {
	Authorize(ctx context.Context, in service.GateInput, req service.Requirement) (service.Decision, error)
}

// RequireGate returns a middleware that runs every protected request through
// the authorization gate. The gate owns the check ordering; this layer only
// extracts credentials from the request and renders the decision. On success
// the resolved principal is placed in the request context.
func RequireGate(gate GateAuthorizer, req service.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dec, err := gate.Authorize(r.Context(), gateInputFromRequest(r), req)
			if err != nil {
				// Infrastructure failure (store unreachable), not a policy denial.
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "internal_error",
					Err:     errors.New("authorization check failed"),
				})
				return
			}
			if !dec.Allowed() {
				WriteError(w, ErrorParams{
					Code:    dec.Denied.Status,
					ErrCode: dec.Denied.Code,
					Err:     errors.New(dec.Denied.Message),
				})
				return
			}

			ctx := SetPrincipalInContext(r.Context(), dec.Principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCSRF returns a middleware that runs only the anti-forgery check,
// for routes that must reject forged requests but stay reachable without a
// live authentication session. Logout is the canonical case: the session may
// already be gone, yet a cross-site POST must not be able to trigger it.
func RequireCSRF(csrf service.CSRFValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := csrf.Validate(r.Context(), cookieValue(r, CSRFSessionCookieName), csrfTokenFromRequest(r))
			if err != nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "internal_error",
					Err:     errors.New("csrf check failed"),
				})
				return
			}
			if !res.Valid {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "csrf_validation_failed",
					Err:     errors.New("request could not be verified: " + res.Reason),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// gateInputFromRequest pulls the session cookie, CSRF session cookie, and the
// echoed CSRF token out of the request. The token is read from the canonical
// header first, then from a form field for standard form submissions.
func gateInputFromRequest(r *http.Request) service.GateInput {
	return service.GateInput{
		SessionID:     cookieValue(r, SessionCookieName),
		CSRFSessionID: cookieValue(r, CSRFSessionCookieName),
		CSRFToken:     csrfTokenFromRequest(r),
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func csrfTokenFromRequest(r *http.Request) string {
	if token := r.Header.Get(CSRFHeaderName); token != "" {
		return token
	}

	// Only parse form for form-encoded content types
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return ""
		}
		return r.FormValue(CSRFTokenCookieName)
	}

	return ""
}
