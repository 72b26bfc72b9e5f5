package ports

import (
	"context"
	"time"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
)

// EntryRange filters entries by owner and an optional half-open date range.
// Zero From/To leave that side unbounded.
type EntryRange struct {
	CounsilliID string
	From        time.Time // date >= From
	To          time.Time // date < To
}

// SadhanaRepository persists daily practice logs.
type SadhanaRepository interface {
	// Create fails with domain.ErrDuplicateEntry when the unique (owner, day)
	// index rejects the insert.
	Create(ctx context.Context, e *domain.SadhanaEntry) (*domain.SadhanaEntry, error)
	// ExistsBetween reports whether the owner has an entry with
	// start <= date <= end.
	ExistsBetween(ctx context.Context, counsilliID string, start, end time.Time) (bool, error)
	// Recent returns up to limit entries, newest date first.
	Recent(ctx context.Context, counsilliID string, limit int64) ([]*domain.SadhanaEntry, error)
	// List returns entries in r, oldest date first.
	List(ctx context.Context, r EntryRange) ([]*domain.SadhanaEntry, error)
}
