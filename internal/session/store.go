// Package session keeps optional server-side conversation history for chat.
// The gateway itself is stateless; this store only serves callers that send a
// session id instead of explicit history.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shopassist/internal/provider"
)

const defaultTTL = 40 * time.Minute

// Store persists conversation turns in Redis under conversation:{id} keys.
type Store struct {
	client   *redis.Client
	ttl      time.Duration
	maxTurns int
}

// Config configures the store.
type Config struct {
	RedisURL string
	TTL      time.Duration
	MaxTurns int
}

// NewStore connects to Redis and verifies the connection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}
	maxTurns := cfg.MaxTurns
	if maxTurns == 0 {
		maxTurns = 50
	}
	return &Store{client: client, ttl: ttl, maxTurns: maxTurns}, nil
}

type record struct {
	Turns []provider.Turn `json:"turns"`
}

// History returns the stored turns for the session, oldest first. A missing
// session yields an empty history, not an error.
func (s *Store) History(ctx context.Context, sessionID string) ([]provider.Turn, error) {
	key := "conversation:" + sessionID
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	var rec record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode conversation: %w", err)
	}

	// Refresh TTL on read, like any active session.
	s.client.Expire(ctx, key, s.ttl)
	return rec.Turns, nil
}

// Append adds turns to the session and trims it to the configured maximum.
func (s *Store) Append(ctx context.Context, sessionID string, turns ...provider.Turn) error {
	existing, err := s.History(ctx, sessionID)
	if err != nil {
		return err
	}

	rec := record{Turns: Trim(append(existing, turns...), s.maxTurns)}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}

	key := "conversation:" + sessionID
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, "conversation:"+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Trim keeps the most recent max turns.
func Trim(turns []provider.Turn, max int) []provider.Turn {
	if max <= 0 || len(turns) <= max {
		return turns
	}
	return turns[len(turns)-max:]
}
