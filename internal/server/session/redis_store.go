package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as JSON values whose Redis TTL follows ExpiresAt.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "bookstore:session:",
		now:    time.Now,
	}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Get(ctx context.Context, id string) (*State, error) {
	val, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get: %w", err)
	}

	var s State
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	if s.Expired(r.now()) {
		return nil, nil
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *State) error {
	if s.ID == "" {
		return fmt.Errorf("session: missing session id")
	}

	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return r.Delete(ctx, s.ID)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	if err := r.client.Set(ctx, r.key(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}
