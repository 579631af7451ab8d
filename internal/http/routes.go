package httpx

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/hearthkeep/hearth/internal/adapters/remotefn"
	"github.com/hearthkeep/hearth/internal/core"
	"github.com/hearthkeep/hearth/internal/data/cryptoutil"
	domainauth "github.com/hearthkeep/hearth/internal/domain/auth"
	"github.com/hearthkeep/hearth/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         *service.AuthService
	CSRF         *service.CSRFService
	Gate         *service.GateService
	Portals      *service.PortalService
	Users        core.UserRepository
	Cipher       *cryptoutil.EnvelopeCipher
	CookieDomain string
	// Remote enables the meeting routes when set; nil leaves them unregistered.
	Remote *remotefn.Config
	// Tokens enables the admin integration-revoke route when set.
	Tokens *remotefn.TokenService
	// Optional readiness dependencies; nil entries are skipped in /readyz.
	DB     *sql.DB
	Redis  redis.UniversalClient
	Logger *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures the HTTP router. Protected routes run
// through the gate; read-only gated routes skip the CSRF check, mutating
// routes carry it. The cross-origin screen wraps the whole mux so mutating
// requests from a foreign registrable domain never reach a handler.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CSRF:         services.CSRF,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	csrfHandlers := &CSRFHandlers{Svc: services.CSRF, CookieDomain: services.CookieDomain}
	cryptoHandlers := &CryptoHandlers{Cipher: services.Cipher}
	portalHandlers := &PortalHandlers{Svc: services.Portals}
	adminHandlers := &AdminHandlers{Users: services.Users, Tokens: services.Tokens}
	readyHandlers := &ReadyHandlers{DB: services.DB, Redis: services.Redis}

	registerAuthRoutes(mux, authHandlers, services.CSRF)
	mux.HandleFunc("GET /api/csrf", csrfHandlers.Issue)
	registerPortalRoutes(mux, portalHandlers, services.Gate)
	registerAdminRoutes(mux, adminHandlers, services.Gate)
	mux.Handle("POST /api/crypto",
		RequireGate(services.Gate, service.Requirement{Role: domainauth.RoleUser})(
			http.HandlerFunc(cryptoHandlers.Transform)))

	if services.Remote != nil {
		registerMeetingRoutes(mux, &MeetingHandlers{Remote: *services.Remote}, services.Gate)
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.HandleFunc("GET /readyz", readyHandlers.Ready)

	return OriginCheck()(mux)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, csrf service.CSRFValidator) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	// Logout mutates server state, so it carries the anti-forgery check even
	// though it does not require a live session.
	mux.Handle("POST /auth/logout", RequireCSRF(csrf)(http.HandlerFunc(h.Logout)))
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerPortalRoutes(mux *http.ServeMux, h *PortalHandlers, gate *service.GateService) {
	mutating := RequireGate(gate, service.Requirement{Role: domainauth.RoleUser})
	readOnly := RequireGate(gate, service.Requirement{Role: domainauth.RoleUser, SkipCSRF: true})

	mux.Handle("POST /api/portals", mutating(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/portals", readOnly(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/portals/{id}", readOnly(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/portals/{id}", mutating(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/portals/{id}", mutating(http.HandlerFunc(h.Delete)))
}

func registerMeetingRoutes(mux *http.ServeMux, h *MeetingHandlers, gate *service.GateService) {
	mutating := RequireGate(gate, service.Requirement{Role: domainauth.RoleUser})
	mux.Handle("POST /api/meetings", mutating(http.HandlerFunc(h.Create)))
	mux.Handle("DELETE /api/meetings/{id}", mutating(http.HandlerFunc(h.Delete)))
}

func registerAdminRoutes(mux *http.ServeMux, h *AdminHandlers, gate *service.GateService) {
	adminRead := RequireGate(gate, service.Requirement{Role: domainauth.RoleAdmin, SkipCSRF: true})
	mux.Handle("GET /api/admin/users", adminRead(http.HandlerFunc(h.ListUsers)))

	if h.Tokens != nil {
		adminMutating := RequireGate(gate, service.Requirement{Role: domainauth.RoleAdmin})
		mux.Handle("POST /api/admin/integrations/{provider}/revoke", adminMutating(http.HandlerFunc(h.RevokeIntegration)))
	}
}
