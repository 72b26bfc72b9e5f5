package ports

import (
	"context"
	"time"
)

// Mailer delivers the one-time verification code.
type Mailer interface {
	SendOTP(ctx context.Context, to, name, code string, ttl time.Duration) error
}

// ExternalIdentity is what a trusted provider vouches for after verifying an
// ID token.
type ExternalIdentity struct {
	Email string
	Name  string
}

// IdentityVerifier checks an externally issued ID token (signature and
// audience).
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*ExternalIdentity, error)
}

// SubmissionLock serialises concurrent add-entry calls for the same owner and
// day. Acquire returns an ownership token, or "" when someone else holds the
// key. Release only drops the key while it still carries that token.
type SubmissionLock interface {
	Acquire(ctx context.Context, counsilliID, day string) (string, error)
	Release(ctx context.Context, counsilliID, day, token string) error
}

// AttemptLimiter counts attempts per key inside a window.
type AttemptLimiter interface {
	// Hit records one attempt and returns the count within the window.
	Hit(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}
