package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix namespaces session keys so docuvault can share a Redis
// instance with other services.
const sessionKeyPrefix = "docuvault:session:"

// RedisRepository stores refresh sessions as JSON values whose TTL matches the
// session expiry, so Redis discards them without any sweeper.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository builds a Redis-backed session repository. An empty prefix
// selects the docuvault default.
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = sessionKeyPrefix
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(refresh string) string {
	return r.prefix + refresh
}

func (r *RedisRepository) Create(ctx context.Context, s *Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		// never persist an already expired session without an expiry
		ttl = time.Second
	}
	if err := r.client.Set(ctx, r.key(s.RefreshToken), b, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (r *RedisRepository) GetByRefresh(ctx context.Context, refresh string) (*Session, error) {
	b, err := r.client.Get(ctx, r.key(refresh)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	// the key may outlive the session when clocks drift; trust expiresAt
	if time.Now().UTC().After(s.ExpiresAt) {
		_ = r.client.Del(ctx, r.key(refresh)).Err()
		return nil, nil
	}
	return &s, nil
}

func (r *RedisRepository) DeleteByRefresh(ctx context.Context, refresh string) error {
	if err := r.client.Del(ctx, r.key(refresh)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
