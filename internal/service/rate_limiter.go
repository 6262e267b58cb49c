package service

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// attemptWindowScript trims a sorted set of attempt timestamps down to the
// current window, then either records the new attempt or reports when the
// window frees up. Runs server-side so concurrent attempts cannot slip past
// the cap between a read and a write.
var attemptWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

if redis.call('ZCARD', key) >= max then
    local head = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    if #head >= 2 then
        return {0, tonumber(head[2]) + window}
    end
    return {0, now + window}
end

redis.call('ZADD', key, now, now .. ':' .. math.random())
redis.call('EXPIRE', key, window + 10)
return {1, now + window}
`)

// AttemptLimiter caps how often a keyed action may happen inside a sliding
// window. Its one consumer is code verification, where unthrottled attempts
// would let a client walk the whitelist keyspace.
type AttemptLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewAttemptLimiter(client *redis.Client, limit int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow reports whether another attempt for key is permitted now, and when
// the window resets. Redis trouble counts as a refusal: this guards a
// brute-force surface, so it fails closed.
func (l *AttemptLimiter) Allow(ctx context.Context, key string) (allowed bool, resetAt time.Time) {
	now := time.Now().Unix()

	res, err := attemptWindowScript.Run(
		ctx,
		l.client,
		[]string{"attempts:" + key},
		now,
		int64(l.window.Seconds()),
		l.limit,
	).Int64Slice()

	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("attempt limit check failed, refusing attempt")
		return false, time.Now().Add(l.window)
	}
	if len(res) != 2 {
		log.Warn().Str("key", key).Int("len", len(res)).Msg("unexpected attempt limit reply, refusing attempt")
		return false, time.Now().Add(l.window)
	}

	return res[0] == 1, time.Unix(res[1], 0)
}

// RetryAfter renders a reset time as the whole seconds left until it, for
// the Retry-After response header.
func RetryAfter(resetAt time.Time) string {
	return strconv.Itoa(int(time.Until(resetAt).Seconds()) + 1)
}
