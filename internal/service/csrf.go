package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/hearthkeep/hearth/internal/ports"
)

// Validation failure reasons, stable strings for logs and tests.
const (
	CSRFReasonMissingSession = "missing_session"
	CSRFReasonMissingToken   = "missing_token"
	CSRFReasonTokenMismatch  = "token_mismatch"
	CSRFReasonExpired        = "expired"
)

// DefaultCSRFTTL is how long an issued token stays valid.
const DefaultCSRFTTL = 24 * time.Hour

// csrfIDBytes gives 256 bits of entropy for both session ids and tokens.
const csrfIDBytes = 32

// CSRFServiceOptions groups dependencies for CSRFService.
type CSRFServiceOptions struct {
	Store ports.CSRFStore
	TTL   time.Duration // default DefaultCSRFTTL when zero
}

// CSRFService implements the double-submit-cookie anti-forgery scheme. It
// issues a session id (HTTP-only cookie) and a token (readable cookie, echoed
// back in a header) and validates the pair against the backing store.
type CSRFService struct {
	store ports.CSRFStore
	ttl   time.Duration
	now   func() time.Time
}

// NewCSRFService constructs a new CSRFService.
func NewCSRFService(opts CSRFServiceOptions) *CSRFService {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultCSRFTTL
	}
	return &CSRFService{store: opts.Store, ttl: ttl, now: time.Now}
}

// TTL reports the configured token lifetime, used for cookie max-age.
func (s *CSRFService) TTL() time.Duration { return s.ttl }

// IssueResult carries the session id and token the handler should set as cookies.
type IssueResult struct {
	SessionID string
	Token     string
}

// Issue returns the anti-forgery token for the given CSRF session, minting a
// session id when the request carries none. Issuance is idempotent: a live
// stored token is returned unchanged so concurrent tabs do not invalidate
// each other.
func (s *CSRFService) Issue(ctx context.Context, sessionID string) (IssueResult, error) {
	if sessionID == "" {
		id, err := randomHex(csrfIDBytes)
		if err != nil {
			return IssueResult{}, fmt.Errorf("mint csrf session id: %w", err)
		}
		sessionID = id
	}

	rec, err := s.store.Get(ctx, sessionID)
	switch {
	case err == nil && !s.recordExpired(rec):
		return IssueResult{SessionID: sessionID, Token: rec.Token}, nil
	case err != nil && !errors.Is(err, ports.ErrCSRFRecordNotFound):
		return IssueResult{}, fmt.Errorf("load csrf record: %w", err)
	}

	token, err := randomHex(csrfIDBytes)
	if err != nil {
		return IssueResult{}, fmt.Errorf("mint csrf token: %w", err)
	}
	if setErr := s.store.Set(ctx, sessionID, ports.CSRFRecord{
		Token:     token,
		CreatedAt: s.now(),
	}, s.ttl); setErr != nil {
		return IssueResult{}, fmt.Errorf("store csrf record: %w", setErr)
	}

	// The store keeps an existing record on a concurrent first issuance;
	// re-read so all racers hand their client the same winning token.
	rec, err = s.store.Get(ctx, sessionID)
	if err != nil {
		return IssueResult{}, fmt.Errorf("reload csrf record: %w", err)
	}
	return IssueResult{SessionID: sessionID, Token: rec.Token}, nil
}

// ValidationResult is the outcome of a CSRF check.
type ValidationResult struct {
	Valid  bool
	Reason string // set when Valid is false
}

// Validate checks the submitted token against the stored record for the
// session id. Comparison is constant-time. Store errors are returned
// separately so the caller can distinguish "forged" from "store down".
func (s *CSRFService) Validate(ctx context.Context, sessionID, token string) (ValidationResult, error) {
	if sessionID == "" {
		return ValidationResult{Reason: CSRFReasonMissingSession}, nil
	}
	if token == "" {
		return ValidationResult{Reason: CSRFReasonMissingToken}, nil
	}

	rec, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, ports.ErrCSRFRecordNotFound) {
		// The cookie outlived the stored record.
		return ValidationResult{Reason: CSRFReasonExpired}, nil
	}
	if err != nil {
		return ValidationResult{}, fmt.Errorf("load csrf record: %w", err)
	}
	if s.recordExpired(rec) {
		return ValidationResult{Reason: CSRFReasonExpired}, nil
	}

	if subtle.ConstantTimeCompare([]byte(rec.Token), []byte(token)) != 1 {
		return ValidationResult{Reason: CSRFReasonTokenMismatch}, nil
	}
	return ValidationResult{Valid: true}, nil
}

// Invalidate drops the stored record, e.g. when rotating after login.
func (s *CSRFService) Invalidate(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.store.Delete(ctx, sessionID)
}

// recordExpired guards against stores without native TTL (the in-memory dev
// store sweeps lazily).
func (s *CSRFService) recordExpired(rec ports.CSRFRecord) bool {
	return !rec.CreatedAt.IsZero() && s.now().After(rec.CreatedAt.Add(s.ttl))
}

// randomHex returns n cryptographically random bytes, hex-encoded.
func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
