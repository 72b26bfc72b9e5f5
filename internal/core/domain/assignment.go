package domain

import "time"

// CounsellorAssignment pairs one counsilli with exactly one counsellor.
type CounsellorAssignment struct {
	ID           string    `json:"_id"`
	CounsellorID string    `json:"counsellor"`
	CounsilliID  string    `json:"counsilli"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CounsilliSummary is one row of a counsellor's assignee list.
// LastSubmission is the latest entry date across all of the counsilli's
// entries, nil when none exist.
type CounsilliSummary struct {
	ID             string     `json:"_id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           Role       `json:"role"`
	LastSubmission *time.Time `json:"lastSubmission,omitempty"`
}
