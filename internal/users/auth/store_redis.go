// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/laurel/internal/platform/constants"
)

// # Signup Throttle Repository

// signupThrottleScript counts an attempt and starts the window's TTL in one
// atomic step. Splitting INCR and EXPIRE across two round trips could strand
// a counter without a TTL if the second call failed, throttling the email
// forever once it passed the limit.
var signupThrottleScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count`)

// RedisSignupThrottleRepository implements SignupThrottleRepository using Redis.
type RedisSignupThrottleRepository struct {
	client *redis.Client
}

// NewSignupThrottleRepository creates a new Redis-backed SignupThrottleRepository.
func NewSignupThrottleRepository(client *redis.Client) *RedisSignupThrottleRepository {
	return &RedisSignupThrottleRepository{client: client}
}

/*
Acquire counts a code issuance against the email's window.

Description: an atomic INCR-with-TTL (Lua) so the window clock always starts
with the first attempt. The counter is allowed to keep growing past the
limit; only the TTL resets it.

Parameters:
  - context: context.Context
  - email: string
  - window: time.Duration
  - max: int

Returns:
  - bool: true if the attempt is within the allowance
  - int: seconds until the window resets (meaningful when denied)
  - error: Connectivity failures
*/
func (repository *RedisSignupThrottleRepository) Acquire(context context.Context, email string, window time.Duration, max int) (bool, int, error) {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixSignupThrottle, email)

	// Count this attempt; the first attempt of the window starts the clock
	count, err := signupThrottleScript.Run(context, repository.client,
		[]string{key}, int(window.Seconds())).Int64()
	if err != nil {
		return false, 0, fmt.Errorf("redis_signup_throttle_incr_failed: %w", err)
	}

	if count <= int64(max) {
		return true, 0, nil
	}

	// Denied: report how long until the window resets
	ttl, err := repository.client.TTL(context, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}

	return false, int(ttl.Seconds()), nil
}
