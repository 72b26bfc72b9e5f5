package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// SadhanaEntry is one counsilli's practice log for one calendar day.
type SadhanaEntry struct {
	ID            string    `json:"_id"`
	CounsilliID   string    `json:"counsilli"`
	Date          time.Time `json:"date"`
	Day           string    `json:"-"`
	WakeUp        string    `json:"wakeUp"`
	JapaCompleted string    `json:"japaCompleted"`
	DayRest       string    `json:"dayRest"`
	Hearing       string    `json:"hearing"`
	Reading       string    `json:"reading"`
	Study         string    `json:"study"`
	TimeToBed     string    `json:"timeToBed"`
	Seva          string    `json:"seva"`
	Concern       string    `json:"concern,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ParseEntryDate accepts either a bare calendar day (YYYY-MM-DD, read as UTC
// midnight) or a full RFC 3339 timestamp.
func ParseEntryDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrValidation)
	}
	if t, err := time.Parse(dayLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD or RFC 3339", ErrValidation)
	}
	return t.UTC(), nil
}

// DayBounds returns the UTC window [00:00:00.000, 23:59:59.999] containing t.
func DayBounds(t time.Time) (start, end time.Time) {
	t = t.UTC()
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	end = start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// DayKey is the UTC calendar day of t, used for the unique (owner, day) index.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// MonthRange parses "YYYY-MM" and returns [first of month, first of next month).
func MonthRange(yearMonth string) (from, to time.Time, err error) {
	m, err := time.Parse(monthLayout, strings.TrimSpace(yearMonth))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: month must be YYYY-MM", ErrValidation)
	}
	from = time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}
