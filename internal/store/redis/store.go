package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/viddst/internal/history"
)

// Store keeps the history record under a single Redis string key.
// Entries never expire; the history is only removed by Delete.
type Store struct {
	client redis.Cmdable
	key    string
}

// NewStore creates a Redis-backed history backend
func NewStore(client redis.Cmdable) *Store {
	return &Store{
		client: client,
		key:    RecordKey(history.RecordName),
	}
}

// Load retrieves the history blob
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, history.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return data, nil
}

// Save replaces the history blob
func (s *Store) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// Delete removes the history blob
func (s *Store) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
