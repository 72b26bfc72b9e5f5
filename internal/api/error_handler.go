package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string `json:"message"`
	// Error carries the request id on 5xx so users can quote it.
	Error string `json:"error,omitempty"`
}

type errorMapping struct {
	err    error
	status int
	// detail renders err.Error() instead of the sentinel text.
	detail bool
}

// errorTable is checked in order; the first errors.Is match wins.
var errorTable = []errorMapping{
	{domain.ErrValidation, http.StatusBadRequest, true},
	{domain.ErrDuplicateEmail, http.StatusBadRequest, false},
	{domain.ErrUnknownCounsellor, http.StatusBadRequest, false},
	{domain.ErrInvalidCredentials, http.StatusBadRequest, false},
	{domain.ErrInvalidOTP, http.StatusBadRequest, false},
	{domain.ErrOTPExpired, http.StatusBadRequest, false},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, false},
	{domain.ErrInvalidExternalToken, http.StatusUnauthorized, false},
	{domain.ErrNotVerified, http.StatusForbidden, false},
	{domain.ErrNotAssigned, http.StatusForbidden, false},
	{domain.ErrForbidden, http.StatusForbidden, false},
	{domain.ErrUserNotFound, http.StatusNotFound, false},
	{domain.ErrNotFound, http.StatusNotFound, false},
	{domain.ErrDuplicateEntry, http.StatusConflict, false},
	{domain.ErrSubmissionInProgress, http.StatusConflict, false},
	{domain.ErrTooManyAttempts, http.StatusTooManyRequests, false},
	{domain.ErrNotificationFailure, http.StatusInternalServerError, false},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": "<text>", "error": "<request id>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		resp := errorResponse{Message: msg}
		if code >= http.StatusInternalServerError {
			resp.Error = c.Response().Header().Get(echo.HeaderXRequestID)
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("request rejected")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range errorTable {
		if !errors.Is(err, m.err) {
			continue
		}
		if m.status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("request failed")
		}
		if m.detail {
			return m.status, err.Error()
		}
		return m.status, m.err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
