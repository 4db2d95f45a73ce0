package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const settingsKey = "settings:current"

// SettingsCache implements ports.SettingsCache using Redis. The cached
// value is the serialized settings record; an admin update invalidates it
// so the next read goes back to the store.
type SettingsCache struct {
	client *goredis.Client
}

// NewSettingsCache creates a new Redis-backed settings cache.
func NewSettingsCache(client *goredis.Client) *SettingsCache {
	return &SettingsCache{client: client}
}

// Get retrieves the cached settings document.
// Returns nil, nil on a cache miss.
func (c *SettingsCache) Get(ctx context.Context) ([]byte, error) {
	val, err := c.client.Get(ctx, settingsKey).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis settings get: %w", err)
	}
	return val, nil
}

// Set stores the settings document with TTL.
func (c *SettingsCache) Set(ctx context.Context, value []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, settingsKey, value, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis settings set: %w", err)
	}
	return nil
}

// Invalidate drops the cached settings document.
func (c *SettingsCache) Invalidate(ctx context.Context) error {
	err := c.client.Del(ctx, settingsKey).Err()
	if err != nil {
		return fmt.Errorf("redis settings invalidate: %w", err)
	}
	return nil
}
