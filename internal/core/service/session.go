package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

// DefaultSessionTTL is how long a session token stays valid. Tokens are never
// revoked server-side.
const DefaultSessionTTL = 7 * 24 * time.Hour

// sessionClaims is the JWT payload. Only the subject is trusted for
// authorization; the role is a hint for fast route rejection.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Sessions issues and validates HS256 session tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is exposed so the cookie max-age matches the token expiry.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

func (s *Sessions) Issue(user *domain.User) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate checks signature and expiry. Any failure is ErrUnauthenticated.
func (s *Sessions) Validate(token string) (*ports.SessionClaims, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}
	if claims.Subject == "" {
		return nil, errors.Join(domain.ErrUnauthenticated, errors.New("token missing subject"))
	}

	return &ports.SessionClaims{UserID: claims.Subject, Role: domain.Role(claims.Role)}, nil
}
