package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// blacklistKeyPrefix namespaces revoked access tokens alongside the session keys.
const blacklistKeyPrefix = "docuvault:blacklist:"

// Access tokens are stateless, so logout revokes them through this shared
// denylist. Without a Redis client revocation degrades to a no-op and tokens
// simply run out their short TTL.
var blacklistClient *redis.Client

// SetBlacklistClient installs the Redis client backing token revocation.
// Passing nil disables it.
func SetBlacklistClient(c *redis.Client) {
	blacklistClient = c
}

func blacklistKey(token string) string {
	return blacklistKeyPrefix + token
}

// BlacklistAccessToken marks the token revoked until ttl elapses, which should
// be the token's own remaining lifetime.
func BlacklistAccessToken(ctx context.Context, token string, ttl time.Duration) error {
	if blacklistClient == nil {
		return nil
	}
	if err := blacklistClient.Set(ctx, blacklistKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

// IsAccessTokenBlacklisted reports whether the token was revoked at logout.
func IsAccessTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if blacklistClient == nil {
		return false, nil
	}
	n, err := blacklistClient.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return n > 0, nil
}
