package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hearthkeep/hearth/internal/core"
	domainauth "github.com/hearthkeep/hearth/internal/domain/auth"
	apperrors "github.com/hearthkeep/hearth/internal/errors"
)

// Requirement declares what a handler demands from a request.
type Requirement struct {
	Role domainauth.Role
	// SkipCSRF exempts the request from the anti-forgery check. Only
	// non-mutating routes may set it.
	SkipCSRF bool
}

// GateInput carries the request credentials, extracted by the HTTP layer and
// passed explicitly rather than through ambient request state.
type GateInput struct {
	SessionID     string // authentication session cookie
	CSRFSessionID string // csrf_session cookie
	CSRFToken     string // X-CSRF-Token header (or body field)
}

// Denial is a terminal authorization failure with its HTTP shape.
type Denial struct {
	Status  int
	Code    string
	Message string
}

// Decision is the tagged result of the gate: either a resolved principal or a
// denial. Exactly one branch is populated.
type Decision struct {
	Principal domainauth.Principal
	Denied    *Denial
}

// Allowed reports whether the request passed every check.
func (d Decision) Allowed() bool { return d.Denied == nil }

// CSRFValidator is the slice of CSRFService the gate needs.
type CSRFValidator interface {
	Validate(ctx context.Context, sessionID, token string) (ValidationResult, error)
}

// GateServiceOptions groups dependencies for GateService.
type GateServiceOptions struct {
	CSRF     CSRFValidator
	Resolver core.SessionResolver
}

// GateService is the single authorization entry point for protected handlers.
// Checks run in strict order: CSRF, then session, then role. The ordering is
// part of the security contract; a role check before CSRF would let a forged
// request probe role-gated behavior.
type GateService struct {
	csrf     CSRFValidator
	resolver core.SessionResolver
}

// NewGateService constructs a new GateService.
func NewGateService(opts GateServiceOptions) *GateService {
	return &GateService{csrf: opts.CSRF, resolver: opts.Resolver}
}

// Authorize runs the ordered checks and returns a Decision. The error return
// is reserved for infrastructure failures (store unreachable); every policy
// outcome is expressed in the Decision.
func (g *GateService) Authorize(ctx context.Context, in GateInput, req Requirement) (Decision, error) {
	if !req.SkipCSRF {
		res, err := g.csrf.Validate(ctx, in.CSRFSessionID, in.CSRFToken)
		if err != nil {
			return Decision{}, fmt.Errorf("csrf validation: %w", err)
		}
		if !res.Valid {
			// Fail closed before any identity lookup.
			return deny(http.StatusForbidden, "csrf_validation_failed",
				"request could not be verified: "+res.Reason), nil
		}
	}

	principal, err := g.resolver.ResolvePrincipal(ctx, in.SessionID)
	if err != nil {
		switch {
		case apperrors.IsUnauthenticated(err):
			return deny(http.StatusUnauthorized, "authentication_required", "authentication required"), nil
		case apperrors.IsUserNotFound(err):
			return deny(http.StatusNotFound, "user_not_found", "no user record for this session"), nil
		default:
			return Decision{}, fmt.Errorf("resolve principal: %w", err)
		}
	}

	if !principal.IsActive {
		return deny(http.StatusForbidden, "insufficient_permissions", "account is deactivated"), nil
	}
	if req.Role == domainauth.RoleAdmin && !principal.IsAdmin() {
		return deny(http.StatusForbidden, "insufficient_permissions", "admin role required"), nil
	}

	return Decision{Principal: principal}, nil
}

func deny(status int, code, message string) Decision {
	return Decision{Denied: &Denial{Status: status, Code: code, Message: message}}
}
