// @title           VIT VOICE Sadhana API
// @version         1.0
// @description     Daily sadhana card tracking for counsellors and counsillis.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vitvoice/sadhana-api/internal/api"
	"github.com/vitvoice/sadhana-api/internal/api/handler"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
	"github.com/vitvoice/sadhana-api/internal/core/service"
	mongostore "github.com/vitvoice/sadhana-api/internal/infrastructure/db/mongo"
	redisstore "github.com/vitvoice/sadhana-api/internal/infrastructure/db/redis"
	"github.com/vitvoice/sadhana-api/internal/infrastructure/google"
	"github.com/vitvoice/sadhana-api/internal/infrastructure/mail"
	"github.com/vitvoice/sadhana-api/internal/pkg/config"
	"github.com/vitvoice/sadhana-api/pkg/logger"

	_ "github.com/vitvoice/sadhana-api/docs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "sadhana-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}

	// --- Infrastructure ---
	users := mongostore.NewUserRepository(db)
	assignments := mongostore.NewAssignmentRepository(db)
	entries := mongostore.NewSadhanaRepository(db)

	var mailer ports.Mailer = mail.NewLogMailer(logger.For("mail"))
	if cfg.MailEnabled() {
		mailer = mail.NewMailgun(mail.Config{
			Domain:  cfg.Mail.Domain,
			APIKey:  cfg.Mail.APIKey,
			APIBase: cfg.Mail.APIBase,
			From:    cfg.Mail.From,
		}, logger.For("mail"))
	} else {
		log.Warn().Msg("mailgun not configured, one-time codes are only logged")
	}

	// --- Services ---
	sessions := service.NewSessions(cfg.JWTSecret, cfg.Auth.SessionTTL)
	authService := service.NewAuthService(service.AuthDeps{
		Users:       users,
		Assignments: assignments,
		Tx:          mongostore.NewTransactor(mongoClient, cfg.Mongo.Transactions),
		Mailer:      mailer,
		Verifier:    google.NewVerifier(cfg.Google.ClientID),
		Limiter:     redisstore.NewAttemptLimiter(rdb, cfg.Auth.OTPTTL),
		Sessions:    sessions,
	}, service.AuthPolicy{
		RequireEmailVerification:    cfg.Auth.RequireEmailVerification,
		AllowPasswordLogin:          cfg.Auth.AllowPasswordLogin,
		CounsellorListRequiresLogin: cfg.Auth.CounsellorListRequiresLogin,
		OTPTTL:                      cfg.Auth.OTPTTL,
		MaxOTPAttempts:              cfg.Auth.MaxOTPAttempts,
		MaxOTPResends:               cfg.Auth.MaxOTPResends,
	}, logger.For("auth"))

	guard := service.NewGuard(users, assignments)
	counsilliService := service.NewCounsilliService(guard, entries, redisstore.NewSubmissionLock(rdb), logger.For("counsilli"))
	counsellorService := service.NewCounsellorService(guard, assignments, entries)

	e := api.NewRouter(api.Deps{
		Auth:       authService,
		Counsilli:  counsilliService,
		Counsellor: counsellorService,
		Sessions:   sessions,
		SessionTTL: sessions.TTL(),
		Checks: map[string]handler.DependencyCheck{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		AllowedOrigins: cfg.AllowedOrigins(),
		Production:     cfg.IsProduction(),
		Log:            logger.For("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close failed")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}
	log.Info().Msg("goodbye")
}
