package ports

import (
	"context"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
)

// EntryInput is the free-text content of one sadhana card.
type EntryInput struct {
	Date          string
	WakeUp        string
	JapaCompleted string
	DayRest       string
	Hearing       string
	Reading       string
	Study         string
	TimeToBed     string
	Seva          string
	Concern       string
}

// CounsilliDashboard is the profile plus the latest entries.
type CounsilliDashboard struct {
	User   *domain.User
	Recent []*domain.SadhanaEntry
}

// CounsellorDashboard is the profile plus the number of assignees.
type CounsellorDashboard struct {
	User          *domain.User
	AssignedCount int64
}

// CounsilliService is the counsilli-facing half of reporting.
type CounsilliService interface {
	Dashboard(ctx context.Context, actingUserID string) (*CounsilliDashboard, error)
	AddEntry(ctx context.Context, actingUserID string, in EntryInput) (*domain.SadhanaEntry, error)
	MonthlyReport(ctx context.Context, actingUserID, yearMonth string) ([]*domain.SadhanaEntry, error)
}

// CounsellorService is the counsellor-facing half of reporting. Every
// operation naming a counsilli requires an assignment to the acting user.
type CounsellorService interface {
	Dashboard(ctx context.Context, actingUserID string) (*CounsellorDashboard, error)
	ListCounsillis(ctx context.Context, actingUserID string) ([]domain.CounsilliSummary, error)
	CounsilliReport(ctx context.Context, actingUserID, counsilliID string) ([]*domain.SadhanaEntry, error)
	CounsilliMonthlyReport(ctx context.Context, actingUserID, counsilliID, yearMonth string) ([]*domain.SadhanaEntry, error)
}
