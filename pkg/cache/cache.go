// Package cache remembers short id to full id resolutions.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ShortIDCache maps a short id prefix of some kind of document to its full id
type ShortIDCache interface {
	Get(ctx context.Context, kind, prefix string) (string, bool, error)
	Set(ctx context.Context, kind, prefix, fullID string) error
}

// Noop never hits
type Noop struct{}

func (Noop) Get(context.Context, string, string) (string, bool, error) { return "", false, nil }
func (Noop) Set(context.Context, string, string, string) error         { return nil }

// RedisShortIDCache stores resolutions in Redis with a TTL
type RedisShortIDCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to Redis and checks the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

// NewRedisShortIDCache wraps a connected client
func NewRedisShortIDCache(client *redis.Client, ttl time.Duration) *RedisShortIDCache {
	return &RedisShortIDCache{client: client, ttl: ttl}
}

func key(kind, prefix string) string {
	return fmt.Sprintf("lottery:shortid:%s:{%s}", kind, prefix)
}

// Get returns the cached full id, if any
func (c *RedisShortIDCache) Get(ctx context.Context, kind, prefix string) (string, bool, error) {
	val, err := c.client.Get(ctx, key(kind, prefix)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

// Set stores a resolution
func (c *RedisShortIDCache) Set(ctx context.Context, kind, prefix, fullID string) error {
	if err := c.client.Set(ctx, key(kind, prefix), fullID, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
