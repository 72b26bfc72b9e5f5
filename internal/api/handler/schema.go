package handler

import (
	"github.com/vitvoice/sadhana-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Name           string `json:"name"           validate:"required"`
	Email          string `json:"email"          validate:"required,email"`
	Password       string `json:"password"       validate:"required,min=6"`
	Role           string `json:"role"           validate:"required,oneof=counsellor counsilli"`
	CounsellorName string `json:"counsellorName" validate:"required_if=Role counsilli"`
}

type registerResponse struct {
	Message             string       `json:"message"`
	User                *domain.User `json:"user"`
	VerificationPending bool         `json:"verificationPending"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,len=6,numeric"`
}

type resendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type googleLoginRequest struct {
	IDToken        string `json:"idToken"        validate:"required"`
	Role           string `json:"role"           validate:"omitempty,oneof=counsellor counsilli"`
	CounsellorName string `json:"counsellorName"`
}

type sessionResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

// needsRoleResponse asks a first-time Google user to pick a role.
type needsRoleResponse struct {
	NeedsRole bool   `json:"needsRole"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// --- Counsilli ---

type addEntryRequest struct {
	Date          string `json:"date"          validate:"required"`
	WakeUp        string `json:"wakeUp"`
	JapaCompleted string `json:"japaCompleted"`
	DayRest       string `json:"dayRest"`
	Hearing       string `json:"hearing"`
	Reading       string `json:"reading"`
	Study         string `json:"study"`
	TimeToBed     string `json:"timeToBed"`
	Seva          string `json:"seva"`
	Concern       string `json:"concern"`
}

type addEntryResponse struct {
	Message string               `json:"message"`
	Sadhana *domain.SadhanaEntry `json:"sadhana"`
}

type counsilliDashboardResponse struct {
	User          *domain.User           `json:"user"`
	RecentSadhana []*domain.SadhanaEntry `json:"recentSadhana"`
}

type monthlyReportResponse struct {
	Month        string                 `json:"month"`
	SadhanaCards []*domain.SadhanaEntry `json:"sadhanaCards"`
}

// --- Counsellor ---

type counsellorDashboardResponse struct {
	User                   *domain.User `json:"user"`
	AssignedCounsilliCount int64        `json:"assignedCounsilliCount"`
}

type counsillisResponse struct {
	Counsillis []domain.CounsilliSummary `json:"counsillis"`
}

type counsilliReportResponse struct {
	CounsilliID  string                 `json:"counsilliId"`
	Month        string                 `json:"month,omitempty"`
	SadhanaCards []*domain.SadhanaEntry `json:"sadhanaCards"`
}
