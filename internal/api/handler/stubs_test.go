package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vitvoice/sadhana-api/internal/api/middleware"
	"github.com/vitvoice/sadhana-api/internal/core/domain"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Service stubs
// ---------------------------------------------------------------------------

type stubAuthService struct {
	register        func(in ports.RegisterInput) (*ports.RegisterResult, error)
	verifyOTP       func(email, code string) error
	resendOTP       func(email string) error
	login           func(email, password string) (*ports.Session, error)
	googleLogin     func(in ports.GoogleLoginInput) (*ports.GoogleLoginResult, error)
	currentUser     func(token string) (*domain.User, error)
	listCounsellors func() ([]domain.CounsellorOption, error)
}

func (s *stubAuthService) Register(_ context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	return s.register(in)
}

func (s *stubAuthService) VerifyOTP(_ context.Context, email, code string) error {
	return s.verifyOTP(email, code)
}

func (s *stubAuthService) ResendOTP(_ context.Context, email string) error {
	return s.resendOTP(email)
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (*ports.Session, error) {
	return s.login(email, password)
}

func (s *stubAuthService) GoogleLogin(_ context.Context, in ports.GoogleLoginInput) (*ports.GoogleLoginResult, error) {
	return s.googleLogin(in)
}

func (s *stubAuthService) CurrentUser(_ context.Context, token string) (*domain.User, error) {
	return s.currentUser(token)
}

func (s *stubAuthService) ListCounsellors(_ context.Context) ([]domain.CounsellorOption, error) {
	return s.listCounsellors()
}

type stubCounsilliService struct {
	dashboard     func(userID string) (*ports.CounsilliDashboard, error)
	addEntry      func(userID string, in ports.EntryInput) (*domain.SadhanaEntry, error)
	monthlyReport func(userID, month string) ([]*domain.SadhanaEntry, error)
}

func (s *stubCounsilliService) Dashboard(_ context.Context, userID string) (*ports.CounsilliDashboard, error) {
	return s.dashboard(userID)
}

func (s *stubCounsilliService) AddEntry(_ context.Context, userID string, in ports.EntryInput) (*domain.SadhanaEntry, error) {
	return s.addEntry(userID, in)
}

func (s *stubCounsilliService) MonthlyReport(_ context.Context, userID, month string) ([]*domain.SadhanaEntry, error) {
	return s.monthlyReport(userID, month)
}

type stubCounsellorService struct {
	dashboard     func(userID string) (*ports.CounsellorDashboard, error)
	list          func(userID string) ([]domain.CounsilliSummary, error)
	report        func(userID, counsilliID string) ([]*domain.SadhanaEntry, error)
	monthlyReport func(userID, counsilliID, month string) ([]*domain.SadhanaEntry, error)
}

func (s *stubCounsellorService) Dashboard(_ context.Context, userID string) (*ports.CounsellorDashboard, error) {
	return s.dashboard(userID)
}

func (s *stubCounsellorService) ListCounsillis(_ context.Context, userID string) ([]domain.CounsilliSummary, error) {
	return s.list(userID)
}

func (s *stubCounsellorService) CounsilliReport(_ context.Context, userID, counsilliID string) ([]*domain.SadhanaEntry, error) {
	return s.report(userID, counsilliID)
}

func (s *stubCounsellorService) CounsilliMonthlyReport(_ context.Context, userID, counsilliID, month string) ([]*domain.SadhanaEntry, error) {
	return s.monthlyReport(userID, counsilliID, month)
}

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asUser makes the context look like the Session middleware already ran.
func asUser(c echo.Context, id string, role domain.Role) echo.Context {
	c.Set(middleware.UserIDKey, id)
	c.Set(middleware.RoleKey, string(role))
	return c
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			return ck
		}
	}
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// wantJSON compares the body with want ignoring key order and whitespace.
func wantJSON(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	var got, exp any
	decode(t, rec, &got)
	if err := json.Unmarshal([]byte(want), &exp); err != nil {
		t.Fatalf("bad expected json %q: %v", want, err)
	}
	if !reflect.DeepEqual(got, exp) {
		t.Fatalf("expected body %s, got %s", want, rec.Body.String())
	}
}
