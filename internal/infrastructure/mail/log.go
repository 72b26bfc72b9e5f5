package mail

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

// LogMailer writes codes to the log instead of sending them. Used in
// development when no Mailgun key is configured.
type LogMailer struct {
	log zerolog.Logger
}

var _ ports.Mailer = (*LogMailer)(nil)

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendOTP(_ context.Context, to, _, code string, ttl time.Duration) error {
	m.log.Info().Str("to", to).Str("otp", code).Dur("ttl", ttl).Msg("otp email (not sent)")
	return nil
}
