package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// VerdictCache is a small string cache used to remember positive parent/child
// relationship checks for a short TTL, keeping repeated statement and
// transfer calls from hammering the auth service.
type VerdictCache struct {
	client *redis.Client
	prefix string
}

// NewVerdictCache creates a new VerdictCache.
func NewVerdictCache(client *redis.Client) *VerdictCache {
	return &VerdictCache{
		client: client,
		prefix: "parentcheck:",
	}
}

// Get retrieves a cached verdict by key.
func (c *VerdictCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, c.prefix+key).Result()
}

// Set stores a verdict with TTL.
func (c *VerdictCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Delete removes a cached verdict.
func (c *VerdictCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}
