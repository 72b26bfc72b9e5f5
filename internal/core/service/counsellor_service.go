package service

import (
	"context"
	"fmt"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

// CounsellorService implements the counsellor side of reporting.
type CounsellorService struct {
	guard       *Guard
	assignments ports.AssignmentRepository
	entries     ports.SadhanaRepository
}

func NewCounsellorService(guard *Guard, assignments ports.AssignmentRepository, entries ports.SadhanaRepository) *CounsellorService {
	return &CounsellorService{guard: guard, assignments: assignments, entries: entries}
}

func (s *CounsellorService) Dashboard(ctx context.Context, actingUserID string) (*ports.CounsellorDashboard, error) {
	user, err := s.guard.Require(ctx, actingUserID, domain.RoleCounsellor)
	if err != nil {
		return nil, err
	}

	count, err := s.assignments.CountByCounsellor(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	return &ports.CounsellorDashboard{User: user.Profile(), AssignedCount: count}, nil
}

func (s *CounsellorService) ListCounsillis(ctx context.Context, actingUserID string) ([]domain.CounsilliSummary, error) {
	user, err := s.guard.Require(ctx, actingUserID, domain.RoleCounsellor)
	if err != nil {
		return nil, err
	}

	summaries, err := s.assignments.ListSummaries(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list counsillis: %w", err)
	}
	return summaries, nil
}

func (s *CounsellorService) CounsilliReport(ctx context.Context, actingUserID, counsilliID string) ([]*domain.SadhanaEntry, error) {
	if _, err := s.guard.RequireAssignment(ctx, actingUserID, counsilliID); err != nil {
		return nil, err
	}
	return s.entries.List(ctx, ports.EntryRange{CounsilliID: counsilliID})
}

func (s *CounsellorService) CounsilliMonthlyReport(ctx context.Context, actingUserID, counsilliID, yearMonth string) ([]*domain.SadhanaEntry, error) {
	if _, err := s.guard.RequireAssignment(ctx, actingUserID, counsilliID); err != nil {
		return nil, err
	}
	from, to, err := domain.MonthRange(yearMonth)
	if err != nil {
		return nil, err
	}
	return s.entries.List(ctx, ports.EntryRange{CounsilliID: counsilliID, From: from, To: to})
}
