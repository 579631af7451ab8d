package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthkeep/hearth/internal/adapters/remotefn"
	domainauth "github.com/hearthkeep/hearth/internal/domain/auth"
)

func serviceTokenProxy(t *testing.T, handler http.HandlerFunc) *remotefn.TokenService {
	t.Helper()
	remote := httptest.NewServer(handler)
	t.Cleanup(remote.Close)
	inv, err := remotefn.NewForService(remotefn.Config{BaseURL: remote.URL}, "shared-secret", "svc-subject")
	require.NoError(t, err)
	return remotefn.NewTokenService(inv, nil)
}

func TestAdmin_RevokeIntegration(t *testing.T) {
	tokens := serviceTokenProxy(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token/revoke", r.URL.Path)
		assert.Equal(t, "shared-secret", r.Header.Get("X-Service-Secret"))
		assert.Equal(t, "svc-subject", r.Header.Get("X-Subject-Id"))
		_, _ = w.Write([]byte(`{"revoked":true}`))
	})

	f := newRouterFixtureWithProxies(t, nil, tokens)
	admin := activeTestUser()
	admin.Role = domainauth.RoleAdmin
	sessionID := f.loginAs(t, admin)
	csrfCookie, token := f.issueCSRF(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/integrations/google/revoke", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	req.AddCookie(csrfCookie)
	req.Header.Set(CSRFHeaderName, token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"revoked"`)
}

func TestAdmin_RevokeIntegrationRequiresAdminRole(t *testing.T) {
	tokens := serviceTokenProxy(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("remote function must not be called for a non-admin caller")
		w.WriteHeader(http.StatusInternalServerError)
	})

	f := newRouterFixtureWithProxies(t, nil, tokens)
	sessionID := f.loginAs(t, activeTestUser())
	csrfCookie, token := f.issueCSRF(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/integrations/google/revoke", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	req.AddCookie(csrfCookie)
	req.Header.Set(CSRFHeaderName, token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_permissions")
}
