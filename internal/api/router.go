package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/vitvoice/sadhana-api/internal/api/handler"
	"github.com/vitvoice/sadhana-api/internal/api/middleware"
	"github.com/vitvoice/sadhana-api/internal/core/domain"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

// Deps carries everything the router needs. Registerer and Gatherer default
// to the global Prometheus registry.
type Deps struct {
	Auth       ports.AuthService
	Counsilli  ports.CounsilliService
	Counsellor ports.CounsellorService
	Sessions   ports.SessionValidator
	SessionTTL time.Duration

	Checks         map[string]handler.DependencyCheck
	AllowedOrigins []string
	Production     bool

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string { return ksuid.New().String() },
	}))
	e.Use(requestLogger(d.Log))
	e.Use(middleware.OriginGuard(d.AllowedOrigins))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.AllowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "sadhana",
		Registerer: d.Registerer,
		Skipper:    skipProbes,
	}))

	// --- Dependencies ---
	cookies := handler.NewCookieHelper(handler.CookieConfigFor(d.Production))
	authHandler := handler.NewAuthHandler(d.Auth, cookies, d.SessionTTL)
	counsilliHandler := handler.NewCounsilliHandler(d.Counsilli)
	counsellorHandler := handler.NewCounsellorHandler(d.Counsellor)
	healthHandler := handler.NewHealthHandler(d.Checks)
	session := middleware.Session(d.Sessions)

	// --- Probes, metrics and docs (no auth required) ---
	e.GET("/", handler.Root)
	e.GET("/health", healthHandler.Liveness)        // liveness: is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	if !d.Production {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/verify-otp", authHandler.VerifyOTP)
	auth.POST("/resend-otp", authHandler.ResendOTP)
	auth.POST("/login", authHandler.Login)
	auth.POST("/google-login", authHandler.GoogleLogin)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me)
	auth.GET("/counsellors", authHandler.Counsellors)

	// --- Counsilli routes ---
	counsilli := e.Group("/api/counsilli", session, middleware.RequireRole(domain.RoleCounsilli))
	counsilli.GET("/dashboard", counsilliHandler.Dashboard)
	counsilli.POST("/sadhana/add", counsilliHandler.AddEntry)
	counsilli.GET("/sadhana/monthly/:month", counsilliHandler.MonthlyReport)

	// --- Counsellor routes ---
	counsellor := e.Group("/api/counsellor", session, middleware.RequireRole(domain.RoleCounsellor))
	counsellor.GET("/dashboard", counsellorHandler.Dashboard)
	counsellor.GET("/counsillis", counsellorHandler.Counsillis)
	counsellor.GET("/counsilli/:id/sadhana", counsellorHandler.Report)
	counsellor.GET("/counsilli/:id/sadhana/:month", counsellorHandler.MonthlyReport)

	return e
}

func skipProbes(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || strings.HasPrefix(p, "/health")
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
