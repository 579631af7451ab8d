package remotefn

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// TokenService wraps the remote function that holds durable OAuth refresh
// tokens (Google Calendar integration). The refresh token never reaches this
// process; only short-lived access tokens come back.
type TokenService struct {
	inv  *Invoker
	eval Evaluator
}

// NewTokenService wraps an Invoker. A nil evaluator selects the library
// implementation.
func NewTokenService(inv *Invoker, eval Evaluator) *TokenService {
	if eval == nil {
		eval = jmespathLibEvaluator{}
	}
	return &TokenService{inv: inv, eval: eval}
}

// AccessToken is a short-lived provider token minted by the remote function.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// GetAccessToken asks the remote function for a fresh provider access token
// for the given integration provider.
func (s *TokenService) GetAccessToken(ctx context.Context, provider string) (AccessToken, error) {
	raw, err := s.inv.Invoke(ctx, "token", map[string]string{"provider": provider})
	if err != nil {
		return AccessToken{}, err
	}

	tok, err := extractString(s.eval, raw, "credentials.access_token")
	if err != nil {
		return AccessToken{}, err
	}

	out := AccessToken{Token: tok}
	if v, evalErr := extract(s.eval, raw, "credentials.expires_in"); evalErr == nil {
		if secs, ok := v.(float64); ok && secs > 0 {
			out.ExpiresAt = time.Now().Add(time.Duration(secs) * time.Second)
		}
	}
	return out, nil
}

// RevokeToken asks the remote function to revoke the stored provider grant.
func (s *TokenService) RevokeToken(ctx context.Context, provider string) error {
	raw, err := s.inv.Invoke(ctx, "token/revoke", map[string]string{"provider": provider})
	if err != nil {
		return err
	}
	var out struct {
		Revoked bool `json:"revoked"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("remotefn: decode revoke response: %w", err)
	}
	if !out.Revoked {
		return fmt.Errorf("remotefn: provider %s grant was not revoked", provider)
	}
	return nil
}
