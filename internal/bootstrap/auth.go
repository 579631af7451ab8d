package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hearthkeep/hearth/config"
	"github.com/hearthkeep/hearth/internal/adapters/authroles"
	"github.com/hearthkeep/hearth/internal/adapters/devauth"
	"github.com/hearthkeep/hearth/internal/adapters/oidc"
	"github.com/hearthkeep/hearth/internal/core"
	"github.com/hearthkeep/hearth/internal/ports"
	"github.com/hearthkeep/hearth/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth     config.AuthConfig
	Sessions ports.SessionStore
	Users    core.UserRepository
	Logger   *slog.Logger
}

// BuildAuthService creates an auth service for the configured auth mode. Every
// protected route runs through the session resolver, so a misconfigured auth
// stack is a startup error rather than a degraded server.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.Sessions == nil {
		return nil, errors.New("auth: session store is required")
	}
	if cfg.Users == nil {
		return nil, errors.New("auth: user repository is required")
	}

	roleMapper := authroles.NewStaticMapper(cfg.Auth.AdminEmails)

	var (
		provider ports.AuthProvider
		err      error
	)
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		if cfg.Logger != nil {
			cfg.Logger.Warn("mock auth mode enabled; do not use in production",
				"subject", cfg.Auth.DevAuth.Subject)
		}
		provider, err = devauth.NewProvider(devauth.Config{
			Subject: cfg.Auth.DevAuth.Subject,
			Email:   cfg.Auth.DevAuth.Email,
		})
		if err != nil {
			return nil, fmt.Errorf("build dev auth provider: %w", err)
		}

	case config.AuthModeOAuth:
		oauth := cfg.Auth.OAuth
		provider, err = oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			IssuerURL:    oauth.IssuerURL,
		})
		if err != nil {
			return nil, fmt.Errorf("build OIDC provider: %w", err)
		}

	default:
		return nil, fmt.Errorf("auth: unknown mode %q", cfg.Auth.Mode)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: cfg.Sessions,
		Roles:    roleMapper,
		Users:    cfg.Users,
	}), nil
}
