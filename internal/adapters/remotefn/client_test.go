package remotefn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveBaseURL(t *testing.T) {
	t.Run("explicit base URL wins", func(t *testing.T) {
		u, err := deriveBaseURL(Config{BaseURL: "https://fns.example.com/", ProjectRef: "ignored"})
		require.NoError(t, err)
		assert.Equal(t, "https://fns.example.com", u)
	})

	t.Run("derived from project ref", func(t *testing.T) {
		u, err := deriveBaseURL(Config{ProjectRef: "prod-a1b2"})
		require.NoError(t, err)
		assert.Equal(t, "https://prod-a1b2.functions.hearthkeep.dev", u)
	})

	t.Run("fails closed without ref or URL", func(t *testing.T) {
		_, err := deriveBaseURL(Config{})
		require.Error(t, err)
	})

	t.Run("rejects non-http scheme", func(t *testing.T) {
		_, err := deriveBaseURL(Config{BaseURL: "ftp://fns.example.com"})
		require.Error(t, err)
	})
}

func TestNewForService_Validation(t *testing.T) {
	cfg := Config{BaseURL: "https://fns.example.com"}

	_, err := NewForService(cfg, "", "subject-1")
	require.Error(t, err)

	_, err = NewForService(cfg, "shh", "")
	require.Error(t, err)

	_, err = NewForService(Config{}, "shh", "subject-1")
	require.Error(t, err, "missing endpoint config must fail at construction")
}

func TestInvoker_ServiceAuthHeaders(t *testing.T) {
	var gotSecret, gotSubject string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get(headerSharedSecret)
		gotSubject = r.Header.Get(headerSubjectID)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	inv, err := NewForService(Config{BaseURL: srv.URL}, "shared-secret", "subject-1")
	require.NoError(t, err)

	_, err = inv.Invoke(context.Background(), "token", map[string]string{"provider": "google"})
	require.NoError(t, err)
	assert.Equal(t, "shared-secret", gotSecret)
	assert.Equal(t, "subject-1", gotSubject)
}

func TestInvoker_UserSessionCookie(t *testing.T) {
	var gotSession string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(sessionCookieName); err == nil {
			gotSession = c.Value
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	inv, err := NewForUser(Config{BaseURL: srv.URL}, "sess-abc")
	require.NoError(t, err)

	_, err = inv.Invoke(context.Background(), "token", nil)
	require.NoError(t, err)
	assert.Equal(t, "sess-abc", gotSession)
}

func TestInvoker_RejectionVsTransportFailure(t *testing.T) {
	t.Run("non-2xx yields ServiceError with status and details", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":"no grant on file"}`))
		}))
		defer srv.Close()

		inv, err := NewForUser(Config{BaseURL: srv.URL}, "sess")
		require.NoError(t, err)

		_, err = inv.Invoke(context.Background(), "token", nil)
		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusUnprocessableEntity, svcErr.Status)
		assert.JSONEq(t, `{"error":"no grant on file"}`, string(svcErr.Details))
	})

	t.Run("non-JSON error body is preserved as a JSON string", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream exploded"))
		}))
		defer srv.Close()

		inv, err := NewForUser(Config{BaseURL: srv.URL}, "sess")
		require.NoError(t, err)

		_, err = inv.Invoke(context.Background(), "token", nil)
		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, `"upstream exploded"`, string(svcErr.Details))
	})

	t.Run("unreachable endpoint is not a ServiceError", func(t *testing.T) {
		inv, err := NewForUser(Config{
			BaseURL:    "http://127.0.0.1:1",
			HTTPClient: &http.Client{Timeout: 200 * time.Millisecond},
		}, "sess")
		require.NoError(t, err)

		_, err = inv.Invoke(context.Background(), "token", nil)
		require.Error(t, err)
		var svcErr *ServiceError
		assert.False(t, errors.As(err, &svcErr))
	})
}

func TestTokenService_GetAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		_, _ = w.Write([]byte(`{"credentials":{"access_token":"ya29.abc","expires_in":3600}}`))
	}))
	defer srv.Close()

	inv, err := NewForService(Config{BaseURL: srv.URL}, "shh", "subject-1")
	require.NoError(t, err)

	svc := NewTokenService(inv, nil)
	tok, err := svc.GetAccessToken(context.Background(), "google")
	require.NoError(t, err)
	assert.Equal(t, "ya29.abc", tok.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, time.Minute)
}

func TestTokenService_MissingCredentialField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"credentials":{}}`))
	}))
	defer srv.Close()

	inv, err := NewForService(Config{BaseURL: srv.URL}, "shh", "subject-1")
	require.NoError(t, err)

	_, err = NewTokenService(inv, nil).GetAccessToken(context.Background(), "google")
	require.Error(t, err)
}

func TestZoomService_CreateMeeting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/zoom/meetings", r.URL.Path)
		_, _ = w.Write([]byte(`{"meeting":{"id":"912345","join_url":"https://zoom.us/j/912345"}}`))
	}))
	defer srv.Close()

	inv, err := NewForUser(Config{BaseURL: srv.URL}, "sess")
	require.NoError(t, err)

	m, err := NewZoomService(inv, nil).CreateMeeting(context.Background(), CreateMeetingInput{
		Topic:    "Family check-in",
		StartsAt: time.Now().Add(24 * time.Hour),
		Duration: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "912345", m.ID)
	assert.Equal(t, "https://zoom.us/j/912345", m.JoinURL)
}
