package cache

import (
	"context"
	"time"
)

const registryKey = "registry:snapshot"

// RegistryCache holds the serialized chain registry snapshot so that session
// creation does not hit the chain store on every workflow. Staleness is
// bounded by the configured TTL; sessions intentionally read a fixed snapshot.
type RegistryCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewRegistryCache creates a RegistryCache with the given snapshot TTL.
func NewRegistryCache(redis *RedisClient, ttl time.Duration) *RegistryCache {
	return &RegistryCache{redis: redis, ttl: ttl}
}

// Get returns the cached snapshot payload. The second return value is false
// on a cache miss.
func (c *RegistryCache) Get(ctx context.Context) (string, bool, error) {
	payload, err := c.redis.Get(ctx, registryKey)
	if err != nil {
		if IsMiss(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return payload, true, nil
}

// Put stores a snapshot payload with the configured TTL.
func (c *RegistryCache) Put(ctx context.Context, payload string) error {
	return c.redis.Set(ctx, registryKey, payload, c.ttl)
}
