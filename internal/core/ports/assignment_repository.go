package ports

import (
	"context"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
)

// AssignmentRepository persists counsellor↔counsilli pairings.
type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.CounsellorAssignment) (*domain.CounsellorAssignment, error)
	// DeleteByCounsilli removes the pairing of a counsilli; missing rows are
	// not an error.
	DeleteByCounsilli(ctx context.Context, counsilliID string) error
	Exists(ctx context.Context, counsellorID, counsilliID string) (bool, error)
	CountByCounsellor(ctx context.Context, counsellorID string) (int64, error)
	// ListSummaries joins each assigned counsilli's profile with the max date
	// across all of their entries.
	ListSummaries(ctx context.Context, counsellorID string) ([]domain.CounsilliSummary, error)
}
