package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

const dashboardRecentLimit = 7

// CounsilliService implements the counsilli side of reporting.
type CounsilliService struct {
	guard   *Guard
	entries ports.SadhanaRepository
	lock    ports.SubmissionLock
	log     zerolog.Logger
	now     func() time.Time
}

// NewCounsilliService wires the service. lock may be nil, in which case only
// the read-before-insert check and the storage index prevent duplicates.
func NewCounsilliService(guard *Guard, entries ports.SadhanaRepository, lock ports.SubmissionLock, log zerolog.Logger) *CounsilliService {
	return &CounsilliService{
		guard:   guard,
		entries: entries,
		lock:    lock,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *CounsilliService) Dashboard(ctx context.Context, actingUserID string) (*ports.CounsilliDashboard, error) {
	user, err := s.guard.Require(ctx, actingUserID, domain.RoleCounsilli)
	if err != nil {
		return nil, err
	}

	recent, err := s.entries.Recent(ctx, user.ID, dashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent entries: %w", err)
	}
	return &ports.CounsilliDashboard{User: user.Profile(), Recent: recent}, nil
}

// AddEntry stores one card for the UTC day of in.Date, rejecting a second
// card for the same day.
func (s *CounsilliService) AddEntry(ctx context.Context, actingUserID string, in ports.EntryInput) (*domain.SadhanaEntry, error) {
	user, err := s.guard.Require(ctx, actingUserID, domain.RoleCounsilli)
	if err != nil {
		return nil, err
	}

	date, err := domain.ParseEntryDate(in.Date)
	if err != nil {
		return nil, err
	}
	day := domain.DayKey(date)

	if s.lock != nil {
		token, err := s.lock.Acquire(ctx, user.ID, day)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("counsilli_id", user.ID).Msg("submission lock unavailable, continuing")
		case token == "":
			return nil, domain.ErrSubmissionInProgress
		default:
			defer func() {
				if err := s.lock.Release(context.WithoutCancel(ctx), user.ID, day, token); err != nil {
					s.log.Warn().Err(err).Str("counsilli_id", user.ID).Msg("failed to release submission lock")
				}
			}()
		}
	}

	start, end := domain.DayBounds(date)
	exists, err := s.entries.ExistsBetween(ctx, user.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("check duplicate entry: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateEntry
	}

	entry := &domain.SadhanaEntry{
		CounsilliID:   user.ID,
		Date:          date,
		Day:           day,
		WakeUp:        strings.TrimSpace(in.WakeUp),
		JapaCompleted: strings.TrimSpace(in.JapaCompleted),
		DayRest:       strings.TrimSpace(in.DayRest),
		Hearing:       strings.TrimSpace(in.Hearing),
		Reading:       strings.TrimSpace(in.Reading),
		Study:         strings.TrimSpace(in.Study),
		TimeToBed:     strings.TrimSpace(in.TimeToBed),
		Seva:          strings.TrimSpace(in.Seva),
		Concern:       strings.TrimSpace(in.Concern),
		CreatedAt:     s.now(),
	}

	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, err
		}
		return nil, fmt.Errorf("create entry: %w", err)
	}

	s.log.Info().Str("counsilli_id", user.ID).Str("day", day).Msg("sadhana card added")
	return created, nil
}

func (s *CounsilliService) MonthlyReport(ctx context.Context, actingUserID, yearMonth string) ([]*domain.SadhanaEntry, error) {
	user, err := s.guard.Require(ctx, actingUserID, domain.RoleCounsilli)
	if err != nil {
		return nil, err
	}
	from, to, err := domain.MonthRange(yearMonth)
	if err != nil {
		return nil, err
	}

	return s.entries.List(ctx, ports.EntryRange{CounsilliID: user.ID, From: from, To: to})
}
