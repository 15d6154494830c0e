package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "ratelimit:"

// RedisLimiter shares windows between instances through Redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	period time.Duration
}

func NewRedis(addr string, limit int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		limit:  limit,
		period: period,
	}
}

func (l *RedisLimiter) Ping(ctx context.Context) error { return l.client.Ping(ctx).Err() }
func (l *RedisLimiter) Close() error                   { return l.client.Close() }

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	k := keyPrefix + key

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return Result{}, fmt.Errorf("incr %s: %w", k, err)
	}
	if count == 1 {
		if err := l.client.PExpire(ctx, k, l.period).Err(); err != nil {
			return Result{}, fmt.Errorf("pexpire %s: %w", k, err)
		}
	}

	ttl, err := l.client.PTTL(ctx, k).Result()
	if err != nil {
		return Result{}, fmt.Errorf("pttl %s: %w", k, err)
	}
	// A key left without expiry would never reset.
	if ttl < 0 {
		if err := l.client.PExpire(ctx, k, l.period).Err(); err != nil {
			return Result{}, fmt.Errorf("pexpire %s: %w", k, err)
		}
		ttl = l.period
	}
	return result(int(count), l.limit, ttl), nil
}
