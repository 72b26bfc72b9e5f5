package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
)

// RequireRole rejects requests whose session role hint is not allowed. It only
// fails fast; services re-check the role against the stored user.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(RoleKey).(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"message": domain.ErrForbidden.Error()})
			}
			return next(c)
		}
	}
}
