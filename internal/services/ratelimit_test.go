package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kensudogit/job-assistance/domain"
)

var (
	_ domain.RateLimiter = (*MemoryRateLimiter)(nil)
	_ domain.RateLimiter = (*RedisRateLimiter)(nil)
)

func TestMemoryRateLimiter_SlidingWindow(t *testing.T) {
	limiter := NewMemoryRateLimiter(RateLimitConfig{MaxAttempts: 3, Window: time.Minute})
	now := time.Now()
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "tanaka")
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, "tanaka")
	require.NoError(t, err)
	assert.False(t, allowed, "fourth attempt inside the window must be rejected")

	// Another identifier is unaffected.
	allowed, err = limiter.Allow(ctx, "suzuki")
	require.NoError(t, err)
	assert.True(t, allowed)

	// Once the old attempts age out the identifier recovers.
	now = now.Add(61 * time.Second)
	allowed, err = limiter.Allow(ctx, "tanaka")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryRateLimiter_Reset(t *testing.T) {
	limiter := NewMemoryRateLimiter(RateLimitConfig{MaxAttempts: 1, Window: time.Minute})
	ctx := context.Background()

	allowed, _ := limiter.Allow(ctx, "tanaka")
	require.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "tanaka")
	require.False(t, allowed)

	require.NoError(t, limiter.Reset(ctx, "tanaka"))

	allowed, _ = limiter.Allow(ctx, "tanaka")
	assert.True(t, allowed, "reset must clear the attempt history")
}

func TestRedisRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRedisRateLimiter(client, RateLimitConfig{MaxAttempts: 2, Window: time.Minute})
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "tanaka")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "tanaka")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "tanaka")
	require.NoError(t, err)
	assert.False(t, allowed)

	require.NoError(t, limiter.Reset(ctx, "tanaka"))

	allowed, err = limiter.Allow(ctx, "tanaka")
	require.NoError(t, err)
	assert.True(t, allowed)
}
