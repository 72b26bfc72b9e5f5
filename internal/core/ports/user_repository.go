package ports

import (
	"context"
	"time"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
)

// UserRepository defines persistence for counsellor and counsilli accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindCounsellorByName is an exact, case-sensitive match restricted to
	// role = counsellor.
	FindCounsellorByName(ctx context.Context, name string) (*domain.User, error)
	ListCounsellors(ctx context.Context, requireLogin bool) ([]domain.CounsellorOption, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetOTP(ctx context.Context, id, code string, expires time.Time) error
	// MarkVerified sets the verified flag and clears the one-time code fields.
	MarkVerified(ctx context.Context, id string) error
	// Delete is only used to roll back a failed registration. Deleting a
	// missing user is not an error.
	Delete(ctx context.Context, id string) error
}
