package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goodsone/console/pkg/sdk"
)

const redisKeyPrefix = "console:session:"

// Redis keeps each session as one hash. The hash TTL is refreshed on every
// write.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Backend = (*Redis)(nil)

func NewRedis(addr, password string, db int, ttl time.Duration) (*Redis, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Redis{client: client, ttl: ttl}, nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, sid, key string) (string, error) {
	v, err := r.client.HGet(ctx, redisKeyPrefix+sid, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", sdk.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis hget: %w", err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, sid, key, value string) error {
	hash := redisKeyPrefix + sid
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hash, key, value)
		if r.ttl > 0 {
			pipe.Expire(ctx, hash, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, redisKeyPrefix+sid, keys...).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}

// Ping checks connectivity; used by the health endpoint.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
