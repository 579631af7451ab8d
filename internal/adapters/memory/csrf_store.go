package memory

// Package memory provides in-process adapters for local development and tests.

import (
	"context"
	"sync"
	"time"

	"github.com/hearthkeep/hearth/internal/ports"
)

type csrfEntry struct {
	rec       ports.CSRFRecord
	expiresAt time.Time // zero means no expiry
}

// CSRFStore is an in-memory anti-forgery token store. Suitable for a single
// process only; production deployments use the Redis store.
type CSRFStore struct {
	mu      sync.Mutex
	entries map[string]csrfEntry
	now     func() time.Time
}

// NewCSRFStore creates a new in-memory CSRF record store.
func NewCSRFStore() *CSRFStore {
	return &CSRFStore{
		entries: make(map[string]csrfEntry),
		now:     time.Now,
	}
}

func (s *CSRFStore) Get(_ context.Context, sessionID string) (ports.CSRFRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		return ports.CSRFRecord{}, ports.ErrCSRFRecordNotFound
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.entries, sessionID)
		return ports.CSRFRecord{}, ports.ErrCSRFRecordNotFound
	}
	return e.rec, nil
}

// Set stores the record. Matching the Redis adapter, an existing live record
// wins and only has its expiry refreshed.
func (s *CSRFStore) Set(_ context.Context, sessionID string, rec ports.CSRFRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}
	if e, ok := s.entries[sessionID]; ok && (e.expiresAt.IsZero() || s.now().Before(e.expiresAt)) {
		e.expiresAt = expiresAt
		s.entries[sessionID] = e
		return nil
	}
	s.entries[sessionID] = csrfEntry{rec: rec, expiresAt: expiresAt}
	return nil
}

func (s *CSRFStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

// Sweep removes expired records. The bootstrap runs it on a ticker so a
// long-lived dev process does not grow without bound.
func (s *CSRFStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}
