package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// RedisCartStorage keeps serialized carts in Redis. Every read or write
// pushes the expiry forward so active carts survive and abandoned ones age out.
// It satisfies cart.Storage; wrap it in cart.NewScoped per session.
type RedisCartStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartStorage(client *redis.Client, ttl time.Duration) *RedisCartStorage {
	return &RedisCartStorage{client: client, ttl: ttl}
}

func (s *RedisCartStorage) key(k string) string {
	return cartKeyPrefix + k
}

func (s *RedisCartStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.GetEx(ctx, s.key(key), s.ttl).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cart: %w", err)
	}
	return value, true, nil
}

func (s *RedisCartStorage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	return nil
}

func (s *RedisCartStorage) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
