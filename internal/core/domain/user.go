package domain

import (
	"strings"
	"time"
)

// Role is the closed set of account roles. It never changes after creation.
type Role string

const (
	RoleCounsellor Role = "counsellor"
	RoleCounsilli  Role = "counsilli"
)

// ParseRole converts raw input into a Role, rejecting anything else.
func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(s)) {
	case RoleCounsellor:
		return RoleCounsellor, nil
	case RoleCounsilli:
		return RoleCounsilli, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) Valid() bool {
	return r == RoleCounsellor || r == RoleCounsilli
}

// User models a counsellor or counsilli account.
type User struct {
	ID           string     `json:"_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	CounsellorID string     `json:"counsellor,omitempty"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	Verified     bool       `json:"verified"`
	OTP          string     `json:"-"`
	OTPExpires   time.Time  `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// HasPassword reports whether the account can use password login.
// Google-only accounts have no hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Profile returns a copy safe to hand to clients: credential and one-time
// code fields are stripped.
func (u *User) Profile() *User {
	if u == nil {
		return nil
	}
	p := *u
	p.PasswordHash = ""
	p.OTP = ""
	p.OTPExpires = time.Time{}
	return &p
}

// NormalizeEmail lower-cases and trims an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CounsellorOption is the lightweight view used by the registration dropdown.
type CounsellorOption struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}
