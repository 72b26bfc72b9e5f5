package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

const (
	// SessionCookie is the http-only cookie carrying the session token.
	SessionCookie = "token"

	UserIDKey = "user_id"
	RoleKey   = "role"
)

// Session resolves the session token from the cookie, falling back to a
// Bearer header when the cookie is absent or no longer valid, and injects the
// user id and role hint into the context.
func Session(validator ports.SessionValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokens := Tokens(c)
			if len(tokens) == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			var lastErr error
			for _, token := range tokens {
				claims, err := validator.Validate(token)
				if err != nil {
					lastErr = err
					continue
				}

				c.Set(UserIDKey, claims.UserID)
				c.Set(RoleKey, string(claims.Role))
				return next(c)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session").SetInternal(lastErr)
		}
	}
}

// Tokens returns the candidate session tokens in the order they should be
// tried: the cookie first, then the Bearer header.
func Tokens(c echo.Context) []string {
	var tokens []string
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		tokens = append(tokens, cookie.Value)
	}

	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		if bearer := strings.TrimSpace(parts[1]); bearer != "" && (len(tokens) == 0 || tokens[0] != bearer) {
			tokens = append(tokens, bearer)
		}
	}
	return tokens
}
