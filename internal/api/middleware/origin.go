package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const corsRejected = "CORS policy does not allow this origin."

// OriginGuard rejects any request whose Origin header is outside the
// allow-list with a JSON 403. Requests without an Origin (curl, mobile apps)
// pass through.
func OriginGuard(allowedOrigins []string) echo.MiddlewareFunc {
	allowedSet := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowedSet[normalizeOrigin(origin)] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if origin != "" && !allowedSet[normalizeOrigin(origin)] {
				return c.JSON(http.StatusForbidden, map[string]string{"message": corsRejected})
			}
			return next(c)
		}
	}
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}
