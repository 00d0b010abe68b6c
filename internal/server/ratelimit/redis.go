package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the key's counter and starts its expiry on
// the first hit. Returns {count, pttl_ms}.
var fixedWindowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisFixedWindow applies the FixedWindow policy with the counters kept in
// redis, so every process behind a load balancer shares one budget per key.
type RedisFixedWindow struct {
	client redis.Scripter
	prefix string
	limit  int
	window time.Duration
}

func NewRedisFixedWindow(client redis.Scripter, prefix string, limit int, window time.Duration) *RedisFixedWindow {
	return &RedisFixedWindow{client: client, prefix: prefix, limit: limit, window: window}
}

func (l *RedisFixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	res, err := fixedWindowScript.Run(ctx, l.client,
		[]string{l.prefix + key},
		l.window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("fixed window script: %w", err)
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected fixed window script result: %v", res)
	}

	count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:    count <= l.limit,
		Limit:      l.limit,
		Remaining:  remaining,
		ResetAfter: ttl,
	}, nil
}
