package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
)

func TestSessions_IssueValidate(t *testing.T) {
	s := NewSessions("secret", time.Hour)
	token, err := s.Issue(&domain.User{ID: "u1", Role: domain.RoleCounsilli})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := s.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != domain.RoleCounsilli {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestSessions_DefaultTTL(t *testing.T) {
	if got := NewSessions("secret", 0).TTL(); got != DefaultSessionTTL {
		t.Fatalf("expected %v, got %v", DefaultSessionTTL, got)
	}
}

func TestSessions_Expired(t *testing.T) {
	s := NewSessions("secret", time.Hour)
	token, err := s.Issue(&domain.User{ID: "u1", Role: domain.RoleCounsellor})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := s.Validate(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSessions_Rejects(t *testing.T) {
	s := NewSessions("secret", time.Hour)
	other, err := NewSessions("other", time.Hour).Issue(&domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "u1", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	for name, token := range map[string]string{
		"empty":          "",
		"garbage":        "not-a-jwt",
		"wrong secret":   other,
		"missing expiry": noExp,
		"missing sub":    noSub,
		"other alg":      hs512,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Validate(token); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}
