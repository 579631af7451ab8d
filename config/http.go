package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://app.example.com").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session and CSRF cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
}

// CSRFConfig contains anti-forgery token configuration.
type CSRFConfig struct {
	// TTL is the lifetime of an issued token and its session cookie.
	TTL time.Duration `env:"CSRF_TTL" envDefault:"24h"`

	// SweepInterval is how often the in-memory store drops expired
	// records. Only relevant when Redis is disabled; the Redis store
	// expires records natively.
	SweepInterval time.Duration `env:"CSRF_SWEEP_INTERVAL" envDefault:"10m"`
}

// Sanitize applies guardrails to CSRF configuration values.
func (c *CSRFConfig) Sanitize() {
	if c.TTL <= 0 {
		c.TTL = 24 * time.Hour
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = 10 * time.Minute
	}
}
