package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/hearthkeep/hearth/internal/domain/auth"
)

// principalKey is an unexported context key type for principal storage.
type principalKey struct{}

// SetPrincipalInContext stores the resolved principal in the request context.
func SetPrincipalInContext(ctx context.Context, p domainauth.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipalFromContext retrieves the principal placed there by the gate
// middleware. The second return is false when the request never passed the
// gate; handlers behind RequireGate can rely on it being true.
func GetPrincipalFromContext(ctx context.Context) (domainauth.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domainauth.Principal)
	return p, ok
}

// PrincipalFromRequest is a convenience accessor for handlers.
func PrincipalFromRequest(r *http.Request) (domainauth.Principal, bool) {
	return GetPrincipalFromContext(r.Context())
}
