package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[string]*domain.User
	seq       int
	deleted   []string
	findErr   error // if set, FindByEmail returns this error
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.seq++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("u%d", r.seq)
	r.byID[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindCounsellorByName(_ context.Context, name string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Role == domain.RoleCounsellor && u.Name == name {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListCounsellors(_ context.Context, requireLogin bool) ([]domain.CounsellorOption, error) {
	var out []domain.CounsellorOption
	for _, u := range r.byID {
		if u.Role != domain.RoleCounsellor {
			continue
		}
		if requireLogin && u.LastLogin == nil {
			continue
		}
		out = append(out, domain.CounsellorOption{ID: u.ID, Name: u.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLogin = &at
	return nil
}

func (r *stubUserRepo) SetOTP(_ context.Context, id, code string, expires time.Time) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.OTP, u.OTPExpires = code, expires
	return nil
}

func (r *stubUserRepo) MarkVerified(_ context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Verified, u.OTP, u.OTPExpires = true, "", time.Time{}
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	delete(r.byID, id)
	return nil
}

type stubAssignmentRepo struct {
	rows      []domain.CounsellorAssignment
	entries   *stubSadhanaRepo // used by ListSummaries for the last-submission join
	users     *stubUserRepo
	createErr error
	deleted   []string
}

func (r *stubAssignmentRepo) Create(_ context.Context, a *domain.CounsellorAssignment) (*domain.CounsellorAssignment, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, row := range r.rows {
		if row.CounsilliID == a.CounsilliID {
			return nil, errors.New("duplicate assignment")
		}
	}
	c := *a
	c.ID = fmt.Sprintf("a%d", len(r.rows)+1)
	r.rows = append(r.rows, c)
	return &c, nil
}

func (r *stubAssignmentRepo) DeleteByCounsilli(_ context.Context, counsilliID string) error {
	r.deleted = append(r.deleted, counsilliID)
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.CounsilliID != counsilliID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *stubAssignmentRepo) Exists(_ context.Context, counsellorID, counsilliID string) (bool, error) {
	for _, row := range r.rows {
		if row.CounsellorID == counsellorID && row.CounsilliID == counsilliID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAssignmentRepo) CountByCounsellor(_ context.Context, counsellorID string) (int64, error) {
	var n int64
	for _, row := range r.rows {
		if row.CounsellorID == counsellorID {
			n++
		}
	}
	return n, nil
}

// ListSummaries mirrors the Mongo $lookup pipeline.
func (r *stubAssignmentRepo) ListSummaries(_ context.Context, counsellorID string) ([]domain.CounsilliSummary, error) {
	var out []domain.CounsilliSummary
	for _, row := range r.rows {
		if row.CounsellorID != counsellorID {
			continue
		}
		u, ok := r.users.byID[row.CounsilliID]
		if !ok {
			continue
		}
		s := domain.CounsilliSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
		for _, e := range r.entries.rows {
			if e.CounsilliID != u.ID {
				continue
			}
			if s.LastSubmission == nil || e.Date.After(*s.LastSubmission) {
				d := e.Date
				s.LastSubmission = &d
			}
		}
		out = append(out, s)
	}
	return out, nil
}

type stubSadhanaRepo struct {
	rows      []*domain.SadhanaEntry
	createErr error
}

func (r *stubSadhanaRepo) Create(_ context.Context, e *domain.SadhanaEntry) (*domain.SadhanaEntry, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, row := range r.rows {
		if row.CounsilliID == e.CounsilliID && row.Day == e.Day {
			return nil, domain.ErrDuplicateEntry
		}
	}
	c := *e
	c.ID = fmt.Sprintf("s%d", len(r.rows)+1)
	r.rows = append(r.rows, &c)
	out := c
	return &out, nil
}

func (r *stubSadhanaRepo) ExistsBetween(_ context.Context, counsilliID string, start, end time.Time) (bool, error) {
	for _, row := range r.rows {
		if row.CounsilliID == counsilliID && !row.Date.Before(start) && !row.Date.After(end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSadhanaRepo) Recent(_ context.Context, counsilliID string, limit int64) ([]*domain.SadhanaEntry, error) {
	list, _ := r.List(context.Background(), ports.EntryRange{CounsilliID: counsilliID})
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	if int64(len(list)) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *stubSadhanaRepo) List(_ context.Context, f ports.EntryRange) ([]*domain.SadhanaEntry, error) {
	var out []*domain.SadhanaEntry
	for _, row := range r.rows {
		if row.CounsilliID != f.CounsilliID {
			continue
		}
		if !f.From.IsZero() && row.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !row.Date.Before(f.To) {
			continue
		}
		c := *row
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type stubTx struct {
	atomic bool
	calls  int
}

func (t *stubTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

func (t *stubTx) Atomic() bool { return t.atomic }

type sentOTP struct {
	to, name, code string
}

type stubMailer struct {
	err  error
	sent []sentOTP
}

func (m *stubMailer) SendOTP(_ context.Context, to, name, code string, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentOTP{to: to, name: name, code: code})
	return nil
}

func (m *stubMailer) last() sentOTP {
	if len(m.sent) == 0 {
		return sentOTP{}
	}
	return m.sent[len(m.sent)-1]
}

type stubVerifier struct {
	identity *ports.ExternalIdentity
	err      error
}

func (v *stubVerifier) Verify(_ context.Context, _ string) (*ports.ExternalIdentity, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.identity, nil
}

type stubLimiter struct {
	counts map[string]int64
	err    error
}

func newStubLimiter() *stubLimiter {
	return &stubLimiter{counts: make(map[string]int64)}
}

func (l *stubLimiter) Hit(_ context.Context, key string) (int64, error) {
	if l.err != nil {
		return 0, l.err
	}
	l.counts[key]++
	return l.counts[key], nil
}

func (l *stubLimiter) Reset(_ context.Context, key string) error {
	delete(l.counts, key)
	return nil
}

type stubLock struct {
	held     map[string]bool
	acquired int
	released int
	err      error
}

func newStubLock() *stubLock {
	return &stubLock{held: make(map[string]bool)}
}

func (l *stubLock) Acquire(_ context.Context, counsilliID, day string) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	k := counsilliID + ":" + day
	if l.held[k] {
		return "", nil
	}
	l.held[k] = true
	l.acquired++
	return fmt.Sprintf("tok-%d", l.acquired), nil
}

func (l *stubLock) Release(_ context.Context, counsilliID, day, token string) error {
	if token == "" {
		return errors.New("release without token")
	}
	delete(l.held, counsilliID+":"+day)
	l.released++
	return nil
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	users       *stubUserRepo
	assignments *stubAssignmentRepo
	entries     *stubSadhanaRepo
	tx          *stubTx
	mailer      *stubMailer
	verifier    *stubVerifier
	limiter     *stubLimiter
	lock        *stubLock
	sessions    *Sessions
}

func newFixture() *fixture {
	users := newStubUserRepo()
	entries := &stubSadhanaRepo{}
	return &fixture{
		users:       users,
		entries:     entries,
		assignments: &stubAssignmentRepo{users: users, entries: entries},
		tx:          &stubTx{},
		mailer:      &stubMailer{},
		verifier:    &stubVerifier{},
		limiter:     newStubLimiter(),
		lock:        newStubLock(),
		sessions:    NewSessions("secret", 0),
	}
}

func (f *fixture) auth(policy AuthPolicy) *AuthService {
	return NewAuthService(AuthDeps{
		Users:       f.users,
		Assignments: f.assignments,
		Tx:          f.tx,
		Mailer:      f.mailer,
		Verifier:    f.verifier,
		Limiter:     f.limiter,
		Sessions:    f.sessions,
	}, policy, discardLogger)
}

func (f *fixture) guard() *Guard {
	return NewGuard(f.users, f.assignments)
}

func (f *fixture) counsilli() *CounsilliService {
	return NewCounsilliService(f.guard(), f.entries, f.lock, discardLogger)
}

func (f *fixture) counsellor() *CounsellorService {
	return NewCounsellorService(f.guard(), f.assignments, f.entries)
}

// seedUser inserts a user directly, bypassing registration.
func (f *fixture) seedUser(name, email string, role domain.Role, counsellorID string) *domain.User {
	u, err := f.users.Create(context.Background(), &domain.User{
		Name: name, Email: email, Role: role, CounsellorID: counsellorID, Verified: true,
	})
	if err != nil {
		panic(err)
	}
	if role == domain.RoleCounsilli {
		if _, err := f.assignments.Create(context.Background(), &domain.CounsellorAssignment{CounsellorID: counsellorID, CounsilliID: u.ID}); err != nil {
			panic(err)
		}
	}
	return u
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

var (
	discardLogger  = zerolog.Nop()
	passwordPolicy = AuthPolicy{AllowPasswordLogin: true}
)
