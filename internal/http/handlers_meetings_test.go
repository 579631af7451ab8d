package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthkeep/hearth/internal/adapters/remotefn"
)

func TestMeetings_CreateForwardsSession(t *testing.T) {
	var gotCookie string
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/zoom/meetings", r.URL.Path)
		if c, err := r.Cookie(SessionCookieName); err == nil {
			gotCookie = c.Value
		}
		var in struct {
			Topic string `json:"topic"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Family call", in.Topic)
		_, _ = w.Write([]byte(`{"meeting":{"id":"m-1","join_url":"https://zoom.example.com/j/m-1"}}`))
	}))
	defer remote.Close()

	f := newRouterFixtureWithRemote(t, &remotefn.Config{BaseURL: remote.URL})
	sessionID := f.loginAs(t, activeTestUser())
	csrfCookie, token := f.issueCSRF(t)

	body := `{"topic":"Family call","starts_at":"2026-09-01T18:00:00Z","duration_minutes":30}`
	req := httptest.NewRequest(http.MethodPost, "/api/meetings", strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	req.AddCookie(csrfCookie)
	req.Header.Set(CSRFHeaderName, token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, sessionID, gotCookie, "the caller's own session must be forwarded")
	assert.Contains(t, rec.Body.String(), "https://zoom.example.com/j/m-1")
}

func TestMeetings_RemoteRejectionIs502(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"session not recognized"}`))
	}))
	defer remote.Close()

	f := newRouterFixtureWithRemote(t, &remotefn.Config{BaseURL: remote.URL})
	sessionID := f.loginAs(t, activeTestUser())
	csrfCookie, token := f.issueCSRF(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/meetings/m-1", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	req.AddCookie(csrfCookie)
	req.Header.Set(CSRFHeaderName, token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "remote_service_error")
	assert.Contains(t, rec.Body.String(), "session not recognized")
}

func TestMeetings_ValidationBeforeRemoteCall(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("remote function must not be called for invalid input")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer remote.Close()

	f := newRouterFixtureWithRemote(t, &remotefn.Config{BaseURL: remote.URL})
	sessionID := f.loginAs(t, activeTestUser())
	csrfCookie, token := f.issueCSRF(t)

	req := httptest.NewRequest(http.MethodPost, "/api/meetings", strings.NewReader(`{"topic":""}`))
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	req.AddCookie(csrfCookie)
	req.Header.Set(CSRFHeaderName, token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_failed")
}

func TestMeetings_UnconfiguredRemoteLeavesRoutesOff(t *testing.T) {
	f := newRouterFixture(t)
	sessionID := f.loginAs(t, activeTestUser())
	csrfCookie, token := f.issueCSRF(t)

	req := httptest.NewRequest(http.MethodPost, "/api/meetings", strings.NewReader(`{"topic":"x"}`))
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	req.AddCookie(csrfCookie)
	req.Header.Set(CSRFHeaderName, token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
