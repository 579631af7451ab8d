package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hearthkeep/hearth/internal/ports"
)

// CSRFStore is a Redis-based anti-forgery token store.
type CSRFStore struct {
	client redis.UniversalClient
	prefix string
}

// NewCSRFStore creates a new Redis-based CSRF record store.
func NewCSRFStore(client redis.UniversalClient) *CSRFStore {
	return &CSRFStore{client: client, prefix: "csrf:"}
}

func (s *CSRFStore) Get(ctx context.Context, sessionID string) (ports.CSRFRecord, error) {
	if sessionID == "" {
		return ports.CSRFRecord{}, ports.ErrCSRFRecordNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.CSRFRecord{}, ports.ErrCSRFRecordNotFound
		}
		return ports.CSRFRecord{}, fmt.Errorf("redis get: %w", err)
	}

	var rec ports.CSRFRecord
	if unmarshalErr := json.Unmarshal([]byte(data), &rec); unmarshalErr != nil {
		return ports.CSRFRecord{}, fmt.Errorf("unmarshal csrf record: %w", unmarshalErr)
	}
	return rec, nil
}

// Set stores the record with the given ttl. SET NX narrows the window where
// two concurrent first requests from the same client would each mint a token:
// when another writer got there first we keep the existing record and the
// caller re-reads it.
func (s *CSRFStore) Set(ctx context.Context, sessionID string, rec ports.CSRFRecord, ttl time.Duration) error {
	if sessionID == "" {
		return errors.New("csrf session ID cannot be empty")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal csrf record: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.prefix+sessionID, data, ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		// Existing record wins; refresh its TTL so rotation semantics match
		// a plain overwrite.
		if expErr := s.client.Expire(ctx, s.prefix+sessionID, ttl).Err(); expErr != nil {
			return fmt.Errorf("redis expire: %w", expErr)
		}
	}
	return nil
}

func (s *CSRFStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+sessionID).Err()
}
