package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

// Guard performs the authorization checks shared by every protected
// operation: load the acting user fresh from storage, check the role, and for
// counsellor reads of a counsilli, check the assignment.
type Guard struct {
	users       ports.UserRepository
	assignments ports.AssignmentRepository
}

func NewGuard(users ports.UserRepository, assignments ports.AssignmentRepository) *Guard {
	return &Guard{users: users, assignments: assignments}
}

// Require loads the acting user and checks the role. A user that no longer
// exists is treated the same as a wrong role.
func (g *Guard) Require(ctx context.Context, actingUserID string, role domain.Role) (*domain.User, error) {
	if actingUserID == "" {
		return nil, domain.ErrUnauthenticated
	}

	user, err := g.users.FindByID(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("load acting user: %w", err)
	}
	if user.Role != role {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

// RequireAssignment loads the acting counsellor and checks that counsilliID is
// one of their assignees. It fails with ErrNotAssigned whether or not the
// counsilli exists.
func (g *Guard) RequireAssignment(ctx context.Context, actingUserID, counsilliID string) (*domain.User, error) {
	counsellor, err := g.Require(ctx, actingUserID, domain.RoleCounsellor)
	if err != nil {
		return nil, err
	}

	ok, err := g.assignments.Exists(ctx, counsellor.ID, counsilliID)
	if err != nil {
		return nil, fmt.Errorf("check assignment: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotAssigned
	}
	return counsellor, nil
}
