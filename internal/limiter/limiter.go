// Package limiter throttles repeated failed login attempts per username.
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter tracks failed login attempts and reports when an account
// has accumulated too many failures inside the lockout window.
type LoginLimiter interface {
	// TooManyFailures reports whether the username is currently locked out.
	TooManyFailures(ctx context.Context, username string) (bool, error)

	// RecordFailure increments the failure counter for the username.
	RecordFailure(ctx context.Context, username string) error

	// Reset clears the failure counter after a successful login.
	Reset(ctx context.Context, username string) error
}

// RedisLimiter counts failures in Redis with a sliding expiry.
type RedisLimiter struct {
	client      *redis.Client
	maxFailures int
	window      time.Duration
}

// NewRedisLimiter creates a limiter allowing maxFailures attempts per window.
func NewRedisLimiter(client *redis.Client, maxFailures int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		maxFailures: maxFailures,
		window:      window,
	}
}

func (l *RedisLimiter) key(username string) string {
	return "login_failures:" + username
}

func (l *RedisLimiter) TooManyFailures(ctx context.Context, username string) (bool, error) {
	count, err := l.client.Get(ctx, l.key(username)).Int()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("get login failure count: %w", err)
	}

	return count >= l.maxFailures, nil
}

func (l *RedisLimiter) RecordFailure(ctx context.Context, username string) error {
	key := l.key(username)

	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}

	return nil
}

func (l *RedisLimiter) Reset(ctx context.Context, username string) error {
	if err := l.client.Del(ctx, l.key(username)).Err(); err != nil {
		return fmt.Errorf("reset login failures: %w", err)
	}

	return nil
}

// NoopLimiter never locks anyone out. Used when Redis is unavailable so
// that login keeps working without throttling.
type NoopLimiter struct{}

func NewNoopLimiter() *NoopLimiter { return &NoopLimiter{} }

func (NoopLimiter) TooManyFailures(context.Context, string) (bool, error) { return false, nil }
func (NoopLimiter) RecordFailure(context.Context, string) error           { return nil }
func (NoopLimiter) Reset(context.Context, string) error                   { return nil }
