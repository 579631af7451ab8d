package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/hearthkeep/hearth/config"
	"github.com/hearthkeep/hearth/internal/adapters/memory"
	redisadapter "github.com/hearthkeep/hearth/internal/adapters/redis"
	"github.com/hearthkeep/hearth/internal/adapters/remotefn"
	"github.com/hearthkeep/hearth/internal/core"
	"github.com/hearthkeep/hearth/internal/data"
	"github.com/hearthkeep/hearth/internal/data/cryptoutil"
	"github.com/hearthkeep/hearth/internal/ports"
	"github.com/hearthkeep/hearth/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth    *service.AuthService
	CSRF    *service.CSRFService
	Gate    *service.GateService
	Portals *service.PortalService
	Users   core.UserRepository
	Cipher  *cryptoutil.EnvelopeCipher

	// Remote is non-nil when the remote function deployment is configured;
	// it enables the meeting routes. Tokens is the service-scoped proxy,
	// non-nil only when the shared secret is also configured.
	Remote *remotefn.Config
	Tokens *remotefn.TokenService

	// sweepers holds in-memory stores that need periodic expiry sweeps.
	// Empty when Redis backs the stores.
	sweepers sweepers
}

type sweepers struct {
	csrf     *memory.CSRFStore
	sessions *memory.SessionStore
}

func (s sweepers) any() bool { return s.csrf != nil || s.sessions != nil }

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient // nil when Redis is disabled
	Logger      *slog.Logger
}

// NewServices wires repositories, stores, and domain services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps and config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	cipher, err := CreateCipher(cfg.EncryptionKey, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	userRepo := data.NewUserRepo(deps.DB)
	portalRepo := data.NewPortalRepo(deps.DB, cipher)

	var (
		sessionStore ports.SessionStore
		csrfStore    ports.CSRFStore
		sweep        sweepers
	)
	if deps.RedisClient != nil {
		sessionStore = redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, "session:")
		csrfStore = redisadapter.NewCSRFStore(deps.RedisClient)
	} else {
		logger.Warn("redis disabled; sessions and anti-forgery tokens are held in process memory")
		memSessions := memory.NewSessionStore()
		memCSRF := memory.NewCSRFStore()
		sessionStore = memSessions
		csrfStore = memCSRF
		sweep = sweepers{csrf: memCSRF, sessions: memSessions}
	}

	authService, err := BuildAuthService(AuthConfig{
		Auth:     cfg.Auth,
		Sessions: sessionStore,
		Users:    userRepo,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	csrfService := service.NewCSRFService(service.CSRFServiceOptions{
		Store: csrfStore,
		TTL:   cfg.CSRF.TTL,
	})
	gateService := service.NewGateService(service.GateServiceOptions{
		CSRF:     csrfService,
		Resolver: authService,
	})
	portalService, err := service.NewPortalService(service.PortalServiceOptions{
		Repo:   portalRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build portal service: %w", err)
	}

	remoteCfg, tokens, err := buildRemoteProxies(cfg.Remote, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	return ServiceContainer{
		Auth:     authService,
		CSRF:     csrfService,
		Gate:     gateService,
		Portals:  portalService,
		Users:    userRepo,
		Cipher:   cipher,
		Remote:   remoteCfg,
		Tokens:   tokens,
		sweepers: sweep,
	}, nil
}

// buildRemoteProxies configures the remote function client. The deployment is
// optional; when absent the meeting routes stay unregistered and no token
// proxy is built. A half-configured deployment is a startup error.
func buildRemoteProxies(cfg config.RemoteConfig, logger *slog.Logger) (*remotefn.Config, *remotefn.TokenService, error) {
	if cfg.BaseURL == "" && cfg.ProjectRef == "" {
		logger.Info("remote function deployment not configured; meeting and token proxies disabled")
		return nil, nil, nil
	}

	remoteCfg := &remotefn.Config{
		BaseURL:    cfg.BaseURL,
		ProjectRef: cfg.ProjectRef,
	}

	var tokens *remotefn.TokenService
	if cfg.SharedSecret != "" {
		inv, err := remotefn.NewForService(*remoteCfg, cfg.SharedSecret, cfg.ServiceSubject)
		if err != nil {
			return nil, nil, fmt.Errorf("build service-scoped remote invoker: %w", err)
		}
		tokens = remotefn.NewTokenService(inv, nil)
		logger.Info("service-scoped token proxy configured", "subject", cfg.ServiceSubject)
	}

	return remoteCfg, tokens, nil
}

// ServiceOrchestrationConfig contains configuration for the service runtime.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// RunServicesWithShutdown starts the HTTP server and background loops and
// blocks until a shutdown signal arrives or a component fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		DB:       cfg.DB,
		Redis:    cfg.RedisClient,
		Logger:   logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return serveHTTP(server, logger)
	})

	g.Go(func() error {
		<-gctx.Done()
		return ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  server,
			Logger:  logger,
		})
	})

	if cfg.Services.sweepers.any() {
		g.Go(func() error {
			runStoreSweeper(gctx, cfg.Services.sweepers, cfg.Config.CSRF.SweepInterval, logger)
			return nil
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runStoreSweeper periodically drops expired in-memory records so a long-lived
// dev process does not grow without bound.
func runStoreSweeper(ctx context.Context, s sweepers, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := 0
			if s.csrf != nil {
				removed += s.csrf.Sweep()
			}
			if s.sessions != nil {
				removed += s.sessions.SweepSessions()
			}
			if removed > 0 {
				logger.DebugContext(ctx, "swept expired in-memory records", "removed", removed)
			}
		}
	}
}
