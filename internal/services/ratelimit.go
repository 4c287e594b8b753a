package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitConfig controls the sliding window applied per identifier.
type RateLimitConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// MemoryRateLimiter implements domain.RateLimiter with an in-process sliding
// window. Suitable for a single instance; a shared deployment should use
// RedisRateLimiter so all instances see the same attempt history.
type MemoryRateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	config   RateLimitConfig
	now      func() time.Time
}

// NewMemoryRateLimiter creates an in-memory sliding window rate limiter.
func NewMemoryRateLimiter(config RateLimitConfig) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		attempts: make(map[string][]time.Time),
		config:   config,
		now:      time.Now,
	}
}

// Allow implements domain.RateLimiter. It prunes attempts older than the
// window, rejects when the identifier is already at capacity, and records the
// attempt otherwise.
func (l *MemoryRateLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.config.Window)

	kept := l.attempts[identifier][:0]
	for _, t := range l.attempts[identifier] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.config.MaxAttempts {
		l.attempts[identifier] = kept
		return false, nil
	}

	l.attempts[identifier] = append(kept, now)
	return true, nil
}

// Reset implements domain.RateLimiter.
func (l *MemoryRateLimiter) Reset(ctx context.Context, identifier string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, identifier)
	return nil
}

// RedisRateLimiter implements domain.RateLimiter on a Redis sorted set per
// identifier, scored by attempt time, so the window is shared across
// instances.
type RedisRateLimiter struct {
	client *redis.Client
	config RateLimitConfig
}

// NewRedisRateLimiter creates a Redis-backed sliding window rate limiter.
func NewRedisRateLimiter(client *redis.Client, config RateLimitConfig) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, config: config}
}

func (l *RedisRateLimiter) key(identifier string) string {
	return "ratelimit:" + identifier
}

// Allow implements domain.RateLimiter. Attempt timestamps live in a sorted
// set; entries older than the window are trimmed before counting.
func (l *RedisRateLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	key := l.key(identifier)
	now := time.Now()
	cutoff := now.Add(-l.config.Window)

	if err := l.client.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", cutoff.UnixNano())).Err(); err != nil {
		return false, fmt.Errorf("failed to trim rate limit window: %w", err)
	}

	count, err := l.client.ZCard(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count rate limit attempts: %w", err)
	}
	if count >= int64(l.config.MaxAttempts) {
		return false, nil
	}

	member := redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()}
	if err := l.client.ZAdd(ctx, key, member).Err(); err != nil {
		return false, fmt.Errorf("failed to record rate limit attempt: %w", err)
	}
	if err := l.client.Expire(ctx, key, l.config.Window).Err(); err != nil {
		return false, fmt.Errorf("failed to set rate limit TTL: %w", err)
	}
	return true, nil
}

// Reset implements domain.RateLimiter.
func (l *RedisRateLimiter) Reset(ctx context.Context, identifier string) error {
	if err := l.client.Del(ctx, l.key(identifier)).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit: %w", err)
	}
	return nil
}
