package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginAttemptsPrefix = "hr:login:attempts:"

// LoginLimiter throttles repeated failed logins for a username and client.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type RedisLoginLimiter struct {
	client      redis.Cmdable
	maxAttempts int64
	window      time.Duration
}

func NewRedisLoginLimiter(client redis.Cmdable, maxAttempts int, window time.Duration) *RedisLoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &RedisLoginLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

func (l *RedisLoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Get(ctx, loginAttemptsPrefix+key).Int64()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read login attempts: %w", err)
	}
	return n < l.maxAttempts, nil
}

func (l *RedisLoginLimiter) RecordFailure(ctx context.Context, key string) error {
	k := loginAttemptsPrefix + key
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	return nil
}

func (l *RedisLoginLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, loginAttemptsPrefix+key).Err(); err != nil {
		return fmt.Errorf("reset login attempts: %w", err)
	}
	return nil
}

func loginKey(username, clientIP string) string {
	return strings.ToLower(username) + ":" + clientIP
}
