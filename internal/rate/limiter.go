// Package rate provides a Redis-backed limiter for failed login attempts.
//
// Fixed-window counters: INCR + EXPIRE on the first hit of a window. Keys are
// "bl:<scope>:<identifier>" so customer, barista and admin logins for the
// same address are counted separately.
package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrRateLimited is returned when the identifier used up its failure budget.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps any Redis failure.
	ErrRedisUnavailable = errors.New("redis unavailable")
)

// Config holds limiter tuning parameters
type Config struct {
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
}

// DefaultConfig allows five failures per fifteen minutes
func DefaultConfig() Config {
	return Config{
		MaxLoginAttempts:      5,
		LoginCooldownDuration: 15 * time.Minute,
	}
}

// Limiter enforces a per-identifier budget of failed logins
type Limiter struct {
	redis  redis.UniversalClient
	scope  string
	config Config
}

// New creates a Limiter for one login scope (e.g. "barista") backed by the given client
func New(redisClient redis.UniversalClient, scope string, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		scope:  scope,
		config: cfg,
	}
}

// WithScope returns a limiter sharing the client and config under another scope
func (l *Limiter) WithScope(scope string) *Limiter {
	return New(l.redis, scope, l.config)
}

// CheckLogin returns ErrRateLimited once the identifier has exhausted its budget.
func (l *Limiter) CheckLogin(ctx context.Context, identifier string) error {
	count, err := l.redis.Get(ctx, l.key(identifier)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count >= int64(l.config.MaxLoginAttempts) {
		return ErrRateLimited
	}
	return nil
}

// RecordFailure counts a failed login for the identifier.
func (l *Limiter) RecordFailure(ctx context.Context, identifier string) error {
	key := l.key(identifier)
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.LoginCooldownDuration).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *Limiter) Reset(ctx context.Context, identifier string) error {
	if err := l.redis.Del(ctx, l.key(identifier)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Attempts returns the failures counted in the current window.
func (l *Limiter) Attempts(ctx context.Context, identifier string) (int, error) {
	count, err := l.redis.Get(ctx, l.key(identifier)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return int(count), nil
}

func (l *Limiter) key(identifier string) string {
	return "bl:" + l.scope + ":" + identifier
}
