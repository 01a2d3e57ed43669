package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenBlacklistPrefix = "hr:token:blacklist:"

// TokenBlacklist records revoked refresh tokens by their jti until they expire.
type TokenBlacklist interface {
	Add(ctx context.Context, tokenID string, expiresAt time.Time) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}

type RedisBlacklist struct {
	client redis.Cmdable
}

func NewRedisBlacklist(client redis.Cmdable) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (b *RedisBlacklist) Add(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// already unusable
		return nil
	}
	if err := b.client.Set(ctx, tokenBlacklistPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token %s: %w", tokenID, err)
	}
	return nil
}

func (b *RedisBlacklist) Contains(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, tokenBlacklistPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist for %s: %w", tokenID, err)
	}
	return n > 0, nil
}
