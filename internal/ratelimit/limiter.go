package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter backed by redis, so the limit holds
// across multiple server instances (an in-process map would not).
type Limiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
	clock  func() time.Time
}

func NewLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{
		rdb:    rdb,
		prefix: prefix,
		limit:  limit,
		window: window,
		clock:  time.Now,
	}
}

var fixedWindowScript = redis.NewScript(`
-- KEYS[1] = window counter key
-- ARGV[1] = limit (int)
-- ARGV[2] = ttl_ms (int)
--
-- Returns:
--  1 if allowed
--  0 if rejected (limit reached)
local current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
else
  -- Ensure TTL exists even if key already existed without TTL
  if redis.call('PTTL', KEYS[1]) < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[2])
  end
end

if current > tonumber(ARGV[1]) then
  return 0
end
return 1
`)

// Allow reports whether another request for subject fits in the current window.
// Fails open on redis errors: availability of the public form beats strict
// throttling for this traffic profile.
func (l *Limiter) Allow(ctx context.Context, subject string) (bool, error) {
	if l.rdb == nil {
		return true, nil
	}
	if subject == "" {
		return false, fmt.Errorf("subject is required")
	}

	key := WindowKey(l.prefix, subject, l.clock().UTC(), l.window)
	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{key}, l.limit, l.window.Milliseconds()).Int()
	if err != nil {
		return true, err
	}
	return res == 1, nil
}

// WindowKey derives the redis key for a subject's current fixed window.
// Windows are aligned to epoch so all instances agree on boundaries.
func WindowKey(prefix, subject string, now time.Time, window time.Duration) string {
	bucket := now.UnixMilli() / window.Milliseconds()
	return fmt.Sprintf("%s:%s:%d", prefix, subject, bucket)
}
