package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthkeep/hearth/internal/adapters/memory"
)

func newTestCSRFService() *CSRFService {
	return NewCSRFService(CSRFServiceOptions{Store: memory.NewCSRFStore()})
}

func TestCSRFService_IssueMintsSessionAndToken(t *testing.T) {
	s := newTestCSRFService()

	res, err := s.Issue(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, res.SessionID, 64, "session id must carry 256 bits of entropy, hex-encoded")
	assert.Len(t, res.Token, 64, "token must carry 256 bits of entropy, hex-encoded")
	assert.NotEqual(t, res.SessionID, res.Token)
}

func TestCSRFService_IssueIsIdempotent(t *testing.T) {
	s := newTestCSRFService()
	ctx := context.Background()

	first, err := s.Issue(ctx, "")
	require.NoError(t, err)

	// A second tab issuing against the same session must get the same token.
	second, err := s.Issue(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, first.Token, second.Token)
}

func TestCSRFService_Validate(t *testing.T) {
	s := newTestCSRFService()
	ctx := context.Background()

	issued, err := s.Issue(ctx, "")
	require.NoError(t, err)

	t.Run("valid pair", func(t *testing.T) {
		res, err := s.Validate(ctx, issued.SessionID, issued.Token)
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Reason)
	})

	t.Run("missing session", func(t *testing.T) {
		res, err := s.Validate(ctx, "", issued.Token)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, CSRFReasonMissingSession, res.Reason)
	})

	t.Run("missing token", func(t *testing.T) {
		res, err := s.Validate(ctx, issued.SessionID, "")
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, CSRFReasonMissingToken, res.Reason)
	})

	t.Run("token mismatch", func(t *testing.T) {
		res, err := s.Validate(ctx, issued.SessionID, "wrong")
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, CSRFReasonTokenMismatch, res.Reason)
	})

	t.Run("unknown session cookie", func(t *testing.T) {
		res, err := s.Validate(ctx, "deadbeef", issued.Token)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, CSRFReasonExpired, res.Reason)
	})
}

func TestCSRFService_ExpiredRecord(t *testing.T) {
	s := newTestCSRFService()
	ctx := context.Background()

	issued, err := s.Issue(ctx, "")
	require.NoError(t, err)

	now := time.Now()
	s.now = func() time.Time { return now.Add(25 * time.Hour) }

	res, err := s.Validate(ctx, issued.SessionID, issued.Token)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, CSRFReasonExpired, res.Reason)

	// Re-issuance after expiry mints a fresh token for the same session id.
	fresh, err := s.Issue(ctx, issued.SessionID)
	require.NoError(t, err)
	assert.Equal(t, issued.SessionID, fresh.SessionID)
	assert.NotEqual(t, issued.Token, fresh.Token)
}

func TestCSRFService_Invalidate(t *testing.T) {
	s := newTestCSRFService()
	ctx := context.Background()

	issued, err := s.Issue(ctx, "")
	require.NoError(t, err)
	require.NoError(t, s.Invalidate(ctx, issued.SessionID))

	res, err := s.Validate(ctx, issued.SessionID, issued.Token)
	require.NoError(t, err)
	assert.False(t, res.Valid)
}
