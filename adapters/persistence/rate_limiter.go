package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/portfolio-cms/internal/domain/user"
)

type rateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// noExpiry is what TTL reports for a key that exists without a timeout.
const noExpiry time.Duration = -1

// incrWithTTL starts the window on the first hit of a key. A counter left
// without an expiry by a failed EXPIRE gets one on its next hit.
func incrWithTTL(ctx context.Context, client rateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count > 1 {
		left, err := client.TTL(ctx, key).Result()
		if err != nil {
			return 0, err
		}
		if left != noExpiry {
			return count, nil
		}
	}
	if err := client.Expire(ctx, key, ttl).Err(); err != nil {
		return 0, fmt.Errorf("set expiry on %s: %w", key, err)
	}
	return count, nil
}

type redisAttemptLimiter struct {
	client rateCounter
	limit  int64
	window time.Duration
}

// NewRedisAttemptLimiter allows limit attempts per key in each fixed window.
func NewRedisAttemptLimiter(client rateCounter, limit int64, window time.Duration) user.AttemptLimiter {
	return &redisAttemptLimiter{client: client, limit: limit, window: window}
}

func (l *redisAttemptLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := incrWithTTL(ctx, l.client, "ratelimit:"+key, l.window)
	if err != nil {
		return false, err
	}
	return count <= l.limit, nil
}
