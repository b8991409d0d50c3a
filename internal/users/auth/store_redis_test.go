// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/laurel/internal/platform/constants"
	"github.com/taibuivan/laurel/internal/users/auth"
)

func newThrottleHarness(t *testing.T) (*auth.RedisSignupThrottleRepository, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return auth.NewSignupThrottleRepository(client), server
}

func TestThrottleAcquire_AllowsUpToLimitThenDenies(t *testing.T) {
	repo, _ := newThrottleHarness(t)

	for i := 0; i < 5; i++ {
		allowed, _, err := repo.Acquire(context.Background(), "alice@example.com", 15*time.Minute, 5)
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d is within the allowance", i+1)
	}

	allowed, retryAfter, err := repo.Acquire(context.Background(), "alice@example.com", 15*time.Minute, 5)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, 0)
}

func TestThrottleAcquire_CounterAlwaysCarriesTTL(t *testing.T) {
	repo, server := newThrottleHarness(t)

	// The count and the window TTL are written in one atomic step, so the
	// very first attempt must already leave an expiring key behind.
	_, _, err := repo.Acquire(context.Background(), "alice@example.com", 15*time.Minute, 5)
	require.NoError(t, err)

	key := constants.RedisPrefixSignupThrottle + "alice@example.com"
	assert.Greater(t, server.TTL(key), time.Duration(0), "counter key must expire")
}

func TestThrottleAcquire_WindowExpiryResetsAllowance(t *testing.T) {
	repo, server := newThrottleHarness(t)
	window := 15 * time.Minute

	for i := 0; i < 6; i++ {
		_, _, err := repo.Acquire(context.Background(), "alice@example.com", window, 5)
		require.NoError(t, err)
	}

	server.FastForward(window)

	allowed, _, err := repo.Acquire(context.Background(), "alice@example.com", window, 5)
	require.NoError(t, err)
	assert.True(t, allowed, "a fresh window restores the allowance")
}

func TestThrottleAcquire_WindowsAreScopedPerEmail(t *testing.T) {
	repo, _ := newThrottleHarness(t)

	for i := 0; i < 6; i++ {
		_, _, err := repo.Acquire(context.Background(), "alice@example.com", 15*time.Minute, 5)
		require.NoError(t, err)
	}

	allowed, _, err := repo.Acquire(context.Background(), "bob@example.com", 15*time.Minute, 5)
	require.NoError(t, err)
	assert.True(t, allowed, "another email's allowance is untouched")
}
