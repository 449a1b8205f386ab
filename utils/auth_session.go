package utils

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisTokenCache stores hashed session tokens in the auth Redis DB, keyed by
// subject ID. One live session per subject; issuing a new token replaces the
// old hash, revoking deletes it.
type RedisTokenCache struct {
	Client *redis.Client
}

func (c *RedisTokenCache) Put(ctx context.Context, subjectID, tokenHash string, ttl time.Duration) error {
	return c.Client.Set(ctx, AuthCachePrefix+subjectID, tokenHash, ttl).Err()
}

func (c *RedisTokenCache) Get(ctx context.Context, subjectID string) (string, error) {
	return c.Client.Get(ctx, AuthCachePrefix+subjectID).Result()
}

func (c *RedisTokenCache) Drop(ctx context.Context, subjectID string) error {
	return c.Client.Del(ctx, AuthCachePrefix+subjectID).Err()
}
