package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const catalogVersionKey = "catalog:version"

// RedisCatalogCache stores JSON-encoded catalog listings. Entries are keyed by
// the current catalog version, so bumping the version makes every existing
// entry unreachable; they then expire on their own.
type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCatalogCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCatalogCache {
	return &RedisCatalogCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCatalogCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, catalogVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog version: %w", err)
	}
	return v, nil
}

func (c *RedisCatalogCache) entryKey(ctx context.Context, key string) (string, error) {
	v, err := c.version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("catalog:v%d:%s", v, key), nil
}

// Get decodes the cached value for key into dest. It returns the versioned
// entry for key whether or not it was found; pass it to Set to fill a miss.
func (c *RedisCatalogCache) Get(ctx context.Context, key string, dest any) (string, bool, error) {
	k, err := c.entryKey(ctx, key)
	if err != nil {
		return "", false, err
	}

	data, err := c.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return k, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read catalog cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("Discarding undecodable catalog cache entry", zap.String("key", k), zap.Error(err))
		if err := c.client.Del(ctx, k).Err(); err != nil {
			c.logger.Warn("Redis DEL failed", zap.Error(err))
		}
		return k, false, nil
	}
	return k, true, nil
}

// Set stores value under an entry returned by Get. If the catalog version
// moved on since then, the entry is already unreachable and simply expires.
func (c *RedisCatalogCache) Set(ctx context.Context, entry string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode catalog cache entry: %w", err)
	}

	if err := c.client.Set(ctx, entry, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	return nil
}

// Invalidate bumps the catalog version.
func (c *RedisCatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, catalogVersionKey).Err(); err != nil {
		return fmt.Errorf("failed to bump catalog version: %w", err)
	}
	return nil
}
