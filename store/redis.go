// ABOUTME: Redis-backed session store for multi-instance deployments
// ABOUTME: Same scoping and best-effort write semantics as the memory store

package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps a shared go-redis client. One per process.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(redisURL string) (*RedisClient, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	opt.PoolSize = 10
	opt.MinIdleConns = 3

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisClient{client: client}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Scoped returns a Store view over this client under the given prefix.
func (r *RedisClient) Scoped(prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: r.client, prefix: prefix, ttl: ttl}
}

// RedisStore scopes the shared client by key prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (s *RedisStore) Get(key string) (string, bool) {
	val, err := s.client.Get(context.Background(), s.prefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *RedisStore) Set(key, value string) {
	if err := s.client.Set(context.Background(), s.prefix+key, value, s.ttl).Err(); err != nil {
		slog.Warn("Redis set failed", "key", key, "error", err)
	}
}

func (s *RedisStore) Delete(keys ...string) {
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = s.prefix + key
	}
	if err := s.client.Del(context.Background(), prefixed...).Err(); err != nil {
		slog.Warn("Redis delete failed", "error", err)
	}
}

// Clear scans and deletes every key under the prefix in batches.
func (s *RedisStore) Clear() {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()

	const batchSize = 100
	pipe := s.client.Pipeline()
	count := 0

	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		count++
		if count >= batchSize {
			if _, err := pipe.Exec(ctx); err != nil {
				slog.Warn("Redis clear batch failed", "error", err)
			}
			count = 0
		}
	}
	if count > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			slog.Warn("Redis clear batch failed", "error", err)
		}
	}
}
