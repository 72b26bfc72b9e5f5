package handler

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vitvoice/sadhana-api/internal/api/middleware"
)

// ctxUserID returns the acting user id injected by the Session middleware.
// Presence proves the middleware ran; the role is re-checked by the service.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.UserIDKey).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	return c.Validate(req)
}

// jsonFieldName makes validation messages use the JSON field names clients send.
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}
