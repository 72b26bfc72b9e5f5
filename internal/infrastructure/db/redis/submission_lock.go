package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/ksuid"

	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

const submissionLockTTL = 30 * time.Second

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SubmissionLock serialises add-entry calls per counsilli and day. The value
// is a ksuid owned by the request that set it.
// Key format: sadhana:lock:<counsilli_id>:<YYYY-MM-DD>
type SubmissionLock struct {
	client redis.Cmdable
	ttl    time.Duration
	newID  func() string
}

var _ ports.SubmissionLock = (*SubmissionLock)(nil)

// NewSubmissionLock creates a SubmissionLock wrapping the given Redis client.
// The TTL bounds how long a crashed request can block the same day.
func NewSubmissionLock(client redis.Cmdable) *SubmissionLock {
	return &SubmissionLock{
		client: client,
		ttl:    submissionLockTTL,
		newID:  func() string { return ksuid.New().String() },
	}
}

// Acquire returns "" when another request holds the key.
func (l *SubmissionLock) Acquire(ctx context.Context, counsilliID, day string) (string, error) {
	token := l.newID()
	ok, err := l.client.SetNX(ctx, l.key(counsilliID, day), token, l.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("acquire submission lock: %w", err)
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

// Release is a no-op when the key expired and was taken by someone else.
func (l *SubmissionLock) Release(ctx context.Context, counsilliID, day, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key(counsilliID, day)}, token).Err(); err != nil {
		return fmt.Errorf("release submission lock: %w", err)
	}
	return nil
}

func (l *SubmissionLock) key(counsilliID, day string) string {
	return fmt.Sprintf("sadhana:lock:%s:%s", counsilliID, day)
}
