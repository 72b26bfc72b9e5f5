package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vitvoice/sadhana-api/internal/api/middleware"
)

// CookieConfig holds the attributes of the session cookie.
type CookieConfig struct {
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// CookieConfigFor returns the cross-site cookie used in production
// (Secure, SameSite=None) or the local development one (Lax, not secure).
func CookieConfigFor(production bool) CookieConfig {
	if production {
		return CookieConfig{Path: "/", Secure: true, SameSite: http.SameSiteNoneMode}
	}
	return CookieConfig{Path: "/", Secure: false, SameSite: http.SameSiteLaxMode}
}

// CookieHelper manages the session cookie.
type CookieHelper struct {
	config CookieConfig
}

func NewCookieHelper(config CookieConfig) *CookieHelper {
	return &CookieHelper{config: config}
}

// SetSession writes the session token with a max-age matching its expiry.
func (h *CookieHelper) SetSession(c echo.Context, token string, ttl time.Duration) {
	h.setCookie(c, token, int(ttl.Seconds()), time.Now().Add(ttl))
}

// ClearSession expires the session cookie with the same attributes it was
// set with, so browsers match and drop it.
func (h *CookieHelper) ClearSession(c echo.Context) {
	h.setCookie(c, "", -1, time.Unix(0, 0))
}

func (h *CookieHelper) setCookie(c echo.Context, value string, maxAge int, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     h.config.Path,
		Domain:   h.config.Domain,
		MaxAge:   maxAge,
		Expires:  expires,
		Secure:   h.config.Secure,
		HttpOnly: true,
		SameSite: h.config.SameSite,
	})
}
