package remotefn

// Package remotefn invokes remote secret-bearing functions: operations that
// need a durable credential (OAuth refresh tokens, Zoom API keys) run in a
// separate trust boundary and are called over HTTP. The caller authenticates
// either as a service (pre-shared secret plus explicit subject id) or as a
// user (forwarding the caller's own session), and the remote side applies its
// own row-level authorization.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	headerSharedSecret = "X-Service-Secret"
	headerSubjectID    = "X-Subject-Id"
	sessionCookieName  = "hearth_session"

	maxErrorBody = 64 * 1024
)

// ServiceError is returned when the remote function rejected the call. It is
// distinct from a transport error so callers can branch on "rejected" vs
// "unreachable".
type ServiceError struct {
	Status  int
	Details json.RawMessage
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("remote function rejected call: status %d", e.Status)
}

// Config describes how to reach the remote function deployment. BaseURL wins
// when set; otherwise the URL is derived from ProjectRef.
type Config struct {
	BaseURL    string
	ProjectRef string
	HTTPClient *http.Client // optional, defaults to a 30s-timeout client
}

// Invoker calls named actions on the remote function endpoint. Both
// construction paths produce the same type, so calling code is agnostic to
// which trust boundary issued the request.
type Invoker struct {
	baseURL    string
	httpClient *http.Client
	decorate   func(*http.Request)
}

// deriveBaseURL resolves the endpoint URL and fails closed: a config that
// cannot produce a well-formed https URL is an error at construction, never a
// request to an undefined endpoint.
func deriveBaseURL(cfg Config) (string, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		ref := strings.TrimSpace(cfg.ProjectRef)
		if ref == "" {
			return "", errors.New("remotefn: base URL or project ref is required")
		}
		raw = fmt.Sprintf("https://%s.functions.hearthkeep.dev", ref)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("remotefn: invalid base URL %q", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

func newInvoker(cfg Config, decorate func(*http.Request)) (*Invoker, error) {
	base, err := deriveBaseURL(cfg)
	if err != nil {
		return nil, err
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Invoker{baseURL: base, httpClient: httpClient, decorate: decorate}, nil
}

// NewForService builds an invoker that authenticates with the pre-shared
// secret and an explicit subject id. Used by backend automation with no live
// user session.
func NewForService(cfg Config, sharedSecret, subjectID string) (*Invoker, error) {
	if strings.TrimSpace(sharedSecret) == "" {
		return nil, errors.New("remotefn: shared secret is required")
	}
	if strings.TrimSpace(subjectID) == "" {
		return nil, errors.New("remotefn: subject id is required")
	}
	return newInvoker(cfg, func(req *http.Request) {
		req.Header.Set(headerSharedSecret, sharedSecret)
		req.Header.Set(headerSubjectID, subjectID)
	})
}

// NewForUser builds an invoker that forwards the caller's own session so the
// remote function can apply row-level authorization itself.
func NewForUser(cfg Config, sessionID string) (*Invoker, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, errors.New("remotefn: session id is required")
	}
	return newInvoker(cfg, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionID})
	})
}

// Invoke performs a single-shot call of the named action. Retries are the
// caller's decision. A non-2xx response yields a *ServiceError carrying the
// remote status and details body; transport failures are returned as plain
// wrapped errors.
func (i *Invoker) Invoke(ctx context.Context, action string, payload any) (json.RawMessage, error) {
	if strings.TrimSpace(action) == "" {
		return nil, errors.New("remotefn: action is required")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("remotefn: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+"/"+action, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("remotefn: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	i.decorate(req)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remotefn: call %s: %w", action, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return nil, fmt.Errorf("remotefn: read response for %s: %w", action, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		details := json.RawMessage(respBody)
		if !json.Valid(respBody) {
			details, _ = json.Marshal(string(respBody))
		}
		return nil, &ServiceError{Status: resp.StatusCode, Details: details}
	}
	return respBody, nil
}
