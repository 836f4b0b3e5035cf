package ratelimit

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultRedisKey is the sorted set shared by every process pacing against BGG.
const DefaultRedisKey = "bgg:rate_limit:window"

// slidingWindowScript trims the window, grants a slot if one is free and
// returns 0, or returns the milliseconds until the oldest grant expires.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

if redis.call('ZCARD', key) < limit then
	redis.call('ZADD', key, now, ARGV[4])
	redis.call('PEXPIRE', key, window)
	return 0
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local wait = tonumber(oldest[2]) + window - now
if wait < 1 then
	wait = 1
end
return wait
`)

// RedisWindow is a sliding window limiter whose grants live in Redis,
// so several processes share one request budget.
type RedisWindow struct {
	redis  *redis.Client
	key    string
	limit  int
	window time.Duration
	now    func() time.Time
	logger zerolog.Logger

	member string
	seq    atomic.Uint64
}

// NewRedisWindow creates a shared limiter storing grants under key.
func NewRedisWindow(redisClient *redis.Client, key string, requestsPerWindow int, opts ...Option) *RedisWindow {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if key == "" {
		key = DefaultRedisKey
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	host, _ := os.Hostname()
	return &RedisWindow{
		redis:  redisClient,
		key:    key,
		limit:  requestsPerWindow,
		window: o.window,
		now:    o.now,
		logger: o.logger,
		member: host + "-" + strconv.Itoa(os.Getpid()),
	}
}

// Acquire blocks until the shared window has a free slot.
func (r *RedisWindow) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.limit <= 0 {
		return nil
	}

	var started time.Time
	for {
		wait, err := r.tryAcquire(ctx)
		if err != nil {
			return err
		}
		if wait <= 0 {
			if !started.IsZero() {
				rateLimitWaitSeconds.WithLabelValues("redis").Observe(time.Since(started).Seconds())
			}
			return nil
		}

		if started.IsZero() {
			started = time.Now()
			rateLimitWaitsTotal.WithLabelValues("redis").Inc()
			r.logger.Debug().
				Str("key", r.key).
				Int("limit", r.limit).
				Dur("wait", wait).
				Msg("Shared rate limit reached, waiting for slot")
		}

		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func (r *RedisWindow) tryAcquire(ctx context.Context) (time.Duration, error) {
	now := r.now().UnixMilli()
	member := r.member + "-" + strconv.FormatUint(r.seq.Add(1), 10)

	waitMs, err := slidingWindowScript.Run(ctx, r.redis,
		[]string{r.key},
		now, r.window.Milliseconds(), r.limit, member,
	).Int64()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, fmt.Errorf("redis rate limit script: %w", err)
	}
	return time.Duration(waitMs) * time.Millisecond, nil
}

// State reads the shared window without granting a slot.
func (r *RedisWindow) State(ctx context.Context) (State, error) {
	s := State{Limit: r.limit}
	if r.limit <= 0 {
		return s, nil
	}

	now := r.now()
	minScore := strconv.FormatInt(now.Add(-r.window).UnixMilli(), 10)

	entries, err := r.redis.ZRangeByScoreWithScores(ctx, r.key, &redis.ZRangeBy{
		Min: "(" + minScore,
		Max: "+inf",
	}).Result()
	if err != nil {
		return s, fmt.Errorf("read rate limit window: %w", err)
	}

	s.InWindow = len(entries)
	if len(entries) > 0 {
		s.OldestAt = time.UnixMilli(int64(entries[0].Score))
	}
	if s.InWindow >= r.limit && !s.OldestAt.IsZero() {
		s.NextSlotIn = s.OldestAt.Add(r.window).Sub(now)
	}
	return s, nil
}
