package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const envProduction = "production"

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// FrontendURL is always allowed by CORS in addition to CORSOrigins.
	FrontendURL string   `env:"FRONTEND_URL, default=http://localhost:5173"`
	CORSOrigins []string `env:"CORS_ORIGINS"`

	Auth   AuthConfig
	Google GoogleConfig
	Mail   MailConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type AuthConfig struct {
	RequireEmailVerification    bool          `env:"REQUIRE_EMAIL_VERIFICATION,     default=false"`
	AllowPasswordLogin          bool          `env:"ALLOW_PASSWORD_LOGIN,           default=true"`
	CounsellorListRequiresLogin bool          `env:"COUNSELLOR_LIST_REQUIRES_LOGIN, default=false"`
	SessionTTL                  time.Duration `env:"SESSION_TTL,                    default=168h"`
	OTPTTL                      time.Duration `env:"OTP_TTL,                        default=10m"`
	MaxOTPAttempts              int64         `env:"MAX_OTP_ATTEMPTS,               default=5"`
	MaxOTPResends               int64         `env:"MAX_OTP_RESENDS,                default=3"`
}

type GoogleConfig struct {
	ClientID string `env:"GOOGLE_CLIENT_ID"`
}

type MailConfig struct {
	Domain  string `env:"MAILGUN_DOMAIN"`
	APIKey  string `env:"MAILGUN_API_KEY"`
	APIBase string `env:"MAILGUN_API_BASE"`
	From    string `env:"MAIL_FROM, default=VIT VOICE Sadhana <no-reply@vitvoice.org>"`
}

type MongoConfig struct {
	URI          string `env:"MONGO_URI,          default=mongodb://localhost:27017"`
	Database     string `env:"MONGO_DB,           default=sadhana"`
	Transactions bool   `env:"MONGO_TRANSACTIONS, default=false"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := Parse(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// Parse reads configuration from l. Tests pass envconfig.MapLookuper.
func Parse(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, envProduction)
}

// AllowedOrigins is the CORS allow-list: FRONTEND_URL plus CORS_ORIGINS,
// de-duplicated, without trailing slashes.
func (c *Config) AllowedOrigins() []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range append([]string{c.FrontendURL}, c.CORSOrigins...) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}

// MailEnabled reports whether Mailgun credentials are present.
func (c *Config) MailEnabled() bool {
	return c.Mail.Domain != "" && c.Mail.APIKey != ""
}
