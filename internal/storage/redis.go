package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(redisURL string) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStorage{client: client}, nil
}

// Incr increments key and arms its expiry on the first hit, so the window is
// fixed from that hit. Only INCR, TTL and EXPIRE are used; a counter left
// without a TTL by an earlier failed EXPIRE is re-armed on its next hit.
func (s *RedisStorage) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := s.client.Pipeline()

	incr := pipe.Incr(ctx, key)
	current := pipe.TTL(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	if needsExpiry(incr.Val(), current.Val()) {
		if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, err
		}
	}

	return incr.Val(), nil
}

// needsExpiry reports whether a counter must have its TTL set. Redis reports
// a key without expiry as a TTL of -1.
func needsExpiry(count int64, ttl time.Duration) bool {
	return count == 1 || ttl == -1
}

func (s *RedisStorage) TTL(ctx context.Context, key string) (time.Duration, error) {
	return s.client.TTL(ctx, key).Result()
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
