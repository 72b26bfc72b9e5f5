package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vitvoice/sadhana-api/internal/api/metrics"
	"github.com/vitvoice/sadhana-api/internal/api/middleware"
	"github.com/vitvoice/sadhana-api/internal/core/domain"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookies     *CookieHelper
	sessionTTL  time.Duration
}

func NewAuthHandler(authService ports.AuthService, cookies *CookieHelper, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies, sessionTTL: sessionTTL}
}

// Register creates a new counsellor or counsilli account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("password", "rejected").Inc()
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrNotificationFailure) {
			metrics.RegistrationRollbacksTotal.Inc()
		}
		metrics.RegistrationsTotal.WithLabelValues("password", outcome(err)).Inc()
		return err
	}

	msg := "User registered successfully"
	result := "created"
	if res.VerificationPending {
		msg = "User registered. Please verify your email with the OTP sent."
		result = "pending_verification"
	}
	metrics.RegistrationsTotal.WithLabelValues("password", result).Inc()

	return c.JSON(http.StatusCreated, registerResponse{
		Message:             msg,
		User:                res.User,
		VerificationPending: res.VerificationPending,
	})
}

// VerifyOTP confirms an account's email with the one-time code.
//
// @Summary      Verify email OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "Email and code"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	if err := h.authService.VerifyOTP(c.Request().Context(), req.Email, req.OTP); err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues(otpOutcome(err)).Inc()
		return err
	}
	metrics.OTPVerificationsTotal.WithLabelValues("verified").Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "Email verified successfully"})
}

// ResendOTP issues a fresh one-time code to an unverified account.
//
// @Summary      Resend email OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resendOTPRequest  true  "Email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/resend-otp [post]
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req resendOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResendOTP(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "A new OTP has been sent to your email"})
}

// Login authenticates with email and password and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues("password", "rejected").Inc()
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("password", outcome(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("password", "success").Inc()

	h.cookies.SetSession(c, session.Token, h.sessionTTL)
	return c.JSON(http.StatusOK, sessionResponse{Message: "Login successful", Token: session.Token, User: session.User})
}

// GoogleLogin signs in with a Google ID token. First-time users without a
// role get needsRole back and must retry with role (and counsellorName).
//
// @Summary      Google sign-in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      googleLoginRequest  true  "Google ID token"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/google-login [post]
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req googleLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues("google", "rejected").Inc()
		return err
	}

	res, err := h.authService.GoogleLogin(c.Request().Context(), toGoogleLoginInput(req))
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("google", outcome(err)).Inc()
		return err
	}

	if res.NeedsRoleSelection {
		metrics.LoginsTotal.WithLabelValues("google", "needs_role").Inc()
		return c.JSON(http.StatusOK, needsRoleResponse{NeedsRole: true, Email: res.Email, Name: res.Name})
	}
	metrics.LoginsTotal.WithLabelValues("google", "success").Inc()

	h.cookies.SetSession(c, res.Session.Token, h.sessionTTL)
	return c.JSON(http.StatusOK, sessionResponse{Message: "Google login successful", Token: res.Session.Token, User: res.Session.User})
}

// Logout clears the session cookie. It succeeds without a session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookies.ClearSession(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// Me returns the profile behind the current session.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	err := error(domain.ErrUnauthenticated)
	for _, token := range middleware.Tokens(c) {
		var user *domain.User
		user, err = h.authService.CurrentUser(c.Request().Context(), token)
		if err == nil {
			return c.JSON(http.StatusOK, userResponse{User: user})
		}
		if !errors.Is(err, domain.ErrUnauthenticated) {
			return err
		}
	}
	return err
}

// Counsellors lists counsellors for the registration dropdown.
//
// @Summary      List counsellors
// @Tags         auth
// @Produce      json
// @Success      200  {array}   domain.CounsellorOption
// @Failure      500  {object}  errorResponse
// @Router       /api/auth/counsellors [get]
func (h *AuthHandler) Counsellors(c echo.Context) error {
	list, err := h.authService.ListCounsellors(c.Request().Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []domain.CounsellorOption{}
	}
	return c.JSON(http.StatusOK, list)
}

// outcome buckets a failure into the "rejected" or "error" metric label.
func outcome(err error) string {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he) && he.Code < http.StatusInternalServerError:
		return "rejected"
	case errors.Is(err, domain.ErrNotificationFailure):
		return "error"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrUnknownCounsellor),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrNotVerified),
		errors.Is(err, domain.ErrInvalidExternalToken):
		return "rejected"
	default:
		return "error"
	}
}

func otpOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrOTPExpired):
		return "expired"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	case errors.Is(err, domain.ErrInvalidOTP), errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrUserNotFound):
		return "invalid"
	default:
		return "error"
	}
}
