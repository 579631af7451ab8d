package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthkeep/hearth/internal/adapters/memory"
	"github.com/hearthkeep/hearth/internal/service"
)

func newCSRFHandlers() *CSRFHandlers {
	return &CSRFHandlers{
		Svc: service.NewCSRFService(service.CSRFServiceOptions{Store: memory.NewCSRFStore()}),
	}
}

func issueOnce(t *testing.T, h *CSRFHandlers, existing *http.Cookie) (*httptest.ResponseRecorder, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "https://app.hearthkeep.dev/api/csrf", nil)
	if existing != nil {
		req.AddCookie(existing)
	}
	rec := httptest.NewRecorder()
	h.Issue(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body.Token
}

func TestCSRFHandlers_IssueSetsBothCookies(t *testing.T) {
	h := newCSRFHandlers()
	rec, token := issueOnce(t, h, nil)
	require.Len(t, token, 64)

	cookies := rec.Result().Cookies()
	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	session := byName[CSRFSessionCookieName]
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly, "session id must be hidden from script")
	assert.Equal(t, http.SameSiteStrictMode, session.SameSite)
	assert.True(t, session.Secure, "request arrived over TLS")
	assert.Equal(t, 86400, session.MaxAge)
	assert.Len(t, session.Value, 64)

	tokenCookie := byName[CSRFTokenCookieName]
	require.NotNil(t, tokenCookie)
	assert.False(t, tokenCookie.HttpOnly, "token must be readable so script can echo it")
	assert.Equal(t, http.SameSiteStrictMode, tokenCookie.SameSite)
	assert.Equal(t, token, tokenCookie.Value)
}

func TestCSRFHandlers_ReissueIsIdempotent(t *testing.T) {
	h := newCSRFHandlers()
	rec, first := issueOnce(t, h, nil)

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == CSRFSessionCookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)

	_, second := issueOnce(t, h, sessionCookie)
	assert.Equal(t, first, second, "a second tab must receive the same live token")
}

func TestCSRFHandlers_PlainHTTPIssuesInsecureCookies(t *testing.T) {
	h := newCSRFHandlers()
	req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/api/csrf", nil)
	rec := httptest.NewRecorder()
	h.Issue(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		assert.False(t, c.Secure, "local dev over plain HTTP cannot use Secure cookies")
	}
}
