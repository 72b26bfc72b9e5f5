package ports

import (
	"context"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
)

// RegisterInput carries a self-service registration.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Role           string
	CounsellorName string
}

// RegisterResult tells the caller whether an OTP step follows.
type RegisterResult struct {
	User                *domain.User
	VerificationPending bool
}

// GoogleLoginInput carries an ID token plus the optional first-login choices.
type GoogleLoginInput struct {
	IDToken        string
	Role           string
	CounsellorName string
}

// Session is an issued, signed session token.
type Session struct {
	Token string
	User  *domain.User
}

// GoogleLoginResult is either a Session or, for an unknown email with no role
// supplied, a request to pick one.
type GoogleLoginResult struct {
	Session            *Session
	NeedsRoleSelection bool
	Email              string
	Name               string
}

// SessionClaims is the identity embedded in a session token.
type SessionClaims struct {
	UserID string
	Role   domain.Role
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
	VerifyOTP(ctx context.Context, email, code string) error
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*Session, error)
	GoogleLogin(ctx context.Context, in GoogleLoginInput) (*GoogleLoginResult, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	ListCounsellors(ctx context.Context) ([]domain.CounsellorOption, error)
}

// SessionValidator parses a session token. Used by the HTTP middleware.
type SessionValidator interface {
	Validate(token string) (*SessionClaims, error)
}
