package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

// hitScript increments the counter and arms the window whenever the key has
// no expiry, so a lost EXPIRE cannot leave a permanent counter.
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// AttemptLimiter counts attempts per key in a fixed window that starts at the
// first hit.
// Key format: limit:<key>
type AttemptLimiter struct {
	client redis.Cmdable
	window time.Duration
}

var _ ports.AttemptLimiter = (*AttemptLimiter)(nil)

func NewAttemptLimiter(client redis.Cmdable, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{client: client, window: window}
}

func (l *AttemptLimiter) Hit(ctx context.Context, key string) (int64, error) {
	n, err := hitScript.Run(ctx, l.client, []string{l.key(key)}, l.window.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("limiter hit: %w", err)
	}
	return n, nil
}

func (l *AttemptLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.key(key)).Err()
}

func (l *AttemptLimiter) key(key string) string {
	return "limit:" + key
}
