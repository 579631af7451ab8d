package config

// RemoteConfig describes the remote function deployment the secret-bearing
// proxies call (token refresh, meeting management). BaseURL wins when set;
// otherwise the endpoint is derived from ProjectRef. An empty configuration
// fails at proxy construction, never mid-request.
type RemoteConfig struct {
	BaseURL    string `env:"BASE_URL"`
	ProjectRef string `env:"PROJECT_REF"`

	// SharedSecret authenticates service-to-service calls.
	SharedSecret string `env:"SHARED_SECRET"`

	// ServiceSubject is the subject id service-scoped calls act on behalf of.
	ServiceSubject string `env:"SERVICE_SUBJECT"`
}
