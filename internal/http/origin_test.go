package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func originTestHandler() http.Handler {
	return OriginCheck()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestOriginCheck(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		origin     string
		referer    string
		wantStatus int
	}{
		{
			name:   "mutating request with matching origin passes",
			method: http.MethodPost, target: "https://app.hearthkeep.dev/api/portals",
			origin:     "https://app.hearthkeep.dev",
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "sibling subdomain shares the registrable domain",
			method: http.MethodPost, target: "https://api.hearthkeep.dev/api/portals",
			origin:     "https://app.hearthkeep.dev",
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "foreign origin is rejected",
			method: http.MethodPost, target: "https://app.hearthkeep.dev/api/portals",
			origin:     "https://evil.example.com",
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "referer is consulted when origin is absent",
			method: http.MethodDelete, target: "https://app.hearthkeep.dev/api/portals/p1",
			referer:    "https://evil.example.com/attack.html",
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "headerless non-browser client passes",
			method: http.MethodPost, target: "https://app.hearthkeep.dev/api/portals",
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "safe method is exempt",
			method: http.MethodGet, target: "https://app.hearthkeep.dev/api/portals",
			origin:     "https://evil.example.com",
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "localhost falls back to exact host comparison",
			method: http.MethodPost, target: "http://localhost:8080/api/portals",
			origin:     "http://localhost:8080",
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			rec := httptest.NewRecorder()
			originTestHandler().ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
