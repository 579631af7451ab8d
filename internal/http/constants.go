package httpx

// Cookie and header names shared by handlers, middleware, and tests.
const (
	// SessionCookieName carries the authentication session id (HTTP-only).
	SessionCookieName = "hearth_session"
	// CSRFSessionCookieName carries the anti-forgery session id (HTTP-only).
	CSRFSessionCookieName = "csrf_session"
	// CSRFTokenCookieName carries the anti-forgery token. Deliberately not
	// HTTP-only: client script reads it and echoes it in CSRFHeaderName.
	CSRFTokenCookieName = "csrf_token"
	// CSRFHeaderName is the canonical header the token is echoed back in.
	CSRFHeaderName = "X-Csrf-Token"
)

const (
	// DefaultPageSize is the page size when the query omits a limit.
	DefaultPageSize = 50
	// MaxPageSize caps client-requested page sizes.
	MaxPageSize = 200
)
