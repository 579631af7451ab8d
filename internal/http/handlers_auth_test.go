package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/hearthkeep/hearth/internal/domain/auth"
	"github.com/hearthkeep/hearth/internal/service"
)

// stubAuthService records calls and returns canned results.
type stubAuthService struct {
	beginResult  *service.BeginLoginResult
	beginErr     error
	completeIn   service.CompleteLoginInput
	session      *domainauth.Session
	getErr       error
	loggedOutIDs []string
}

func (s *stubAuthService) BeginLogin(_ context.Context, _ string) (*service.BeginLoginResult, error) {
	return s.beginResult, s.beginErr
}

func (s *stubAuthService) CompleteLogin(
	_ context.Context,
	in service.CompleteLoginInput,
) (*service.CompleteLoginResult, error) {
	s.completeIn = in
	return &service.CompleteLoginResult{Session: *s.session}, nil
}

func (s *stubAuthService) GetSession(_ context.Context, _ string) (*domainauth.Session, error) {
	return s.session, s.getErr
}

func (s *stubAuthService) Logout(_ context.Context, id string) error {
	s.loggedOutIDs = append(s.loggedOutIDs, id)
	return nil
}

func testSession() *domainauth.Session {
	return &domainauth.Session{
		ID:        "sess-1",
		Subject:   "sub-1",
		Email:     "a@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestAuthHandlers_LoginRedirectsToProvider(t *testing.T) {
	stub := &stubAuthService{beginResult: &service.BeginLoginResult{
		AuthURL: "https://idp.example.com/auth?x=1", State: "st", Nonce: "no",
	}}
	h := &AuthHandlers{Svc: stub}

	req := httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=/portals", nil)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://idp.example.com/auth?x=1", rec.Header().Get("Location"))

	names := map[string]string{}
	for _, c := range rec.Result().Cookies() {
		names[c.Name] = c.Value
	}
	assert.Equal(t, "st", names["oauth_state"])
	assert.Equal(t, "no", names["oauth_nonce"])
	assert.Equal(t, "/portals", names["post_login_redirect"])
}

func TestAuthHandlers_LoginRejectsAbsoluteRedirect(t *testing.T) {
	stub := &stubAuthService{beginResult: &service.BeginLoginResult{AuthURL: "https://idp/auth"}}
	h := &AuthHandlers{Svc: stub}

	req := httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=https://evil.example.com/", nil)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "post_login_redirect" {
			assert.Equal(t, "/", c.Value, "offsite redirects collapse to root")
		}
	}
}

func TestAuthHandlers_CallbackSetsSessionCookie(t *testing.T) {
	stub := &stubAuthService{session: testSession()}
	h := &AuthHandlers{Svc: stub}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c1&state=st", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "st"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "no"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/portals"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/portals", rec.Header().Get("Location"))
	assert.Equal(t, service.CompleteLoginInput{Code: "c1", State: "st", Nonce: "no"}, stub.completeIn)

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Equal(t, "sess-1", sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Positive(t, sessionCookie.MaxAge)
}

func TestAuthHandlers_CallbackRejectsStateMismatch(t *testing.T) {
	stub := &stubAuthService{session: testSession()}
	h := &AuthHandlers{Svc: stub}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c1&state=st", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "other"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_state")
}

// stubCSRFInvalidator records which CSRF session ids were dropped.
type stubCSRFInvalidator struct {
	invalidatedIDs []string
}

func (s *stubCSRFInvalidator) Invalidate(_ context.Context, sessionID string) error {
	s.invalidatedIDs = append(s.invalidatedIDs, sessionID)
	return nil
}

func TestAuthHandlers_LogoutInvalidatesAndClears(t *testing.T) {
	stub := &stubAuthService{session: testSession()}
	csrf := &stubCSRFInvalidator{}
	h := &AuthHandlers{Svc: stub, CSRF: csrf}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	req.AddCookie(&http.Cookie{Name: CSRFSessionCookieName, Value: "csrf-sess-1"})
	req.AddCookie(&http.Cookie{Name: CSRFTokenCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"sess-1"}, stub.loggedOutIDs)
	assert.Equal(t, []string{"csrf-sess-1"}, csrf.invalidatedIDs)

	// The session cookie and both anti-forgery cookies must all be expired.
	cleared := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cleared[c.Name] = c
	}
	for _, name := range []string{SessionCookieName, CSRFSessionCookieName, CSRFTokenCookieName} {
		c := cleared[name]
		require.NotNil(t, c, name)
		assert.Equal(t, -1, c.MaxAge, name)
		assert.Empty(t, c.Value, name)
	}
}

func TestAuthHandlers_LogoutWithoutCSRFCookieSkipsInvalidation(t *testing.T) {
	csrf := &stubCSRFInvalidator{}
	h := &AuthHandlers{Svc: &stubAuthService{}, CSRF: csrf}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, csrf.invalidatedIDs)
}

func TestAuthHandlers_Status(t *testing.T) {
	t.Run("no cookie", func(t *testing.T) {
		h := &AuthHandlers{Svc: &stubAuthService{}}
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		rec := httptest.NewRecorder()
		h.Status(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"authenticated":false`)
	})

	t.Run("live session", func(t *testing.T) {
		h := &AuthHandlers{Svc: &stubAuthService{session: testSession()}}
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
		rec := httptest.NewRecorder()
		h.Status(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"authenticated":true`)
		assert.Contains(t, rec.Body.String(), "a@example.com")
	})
}
