package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/rs/zerolog"

	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

const otpSubject = "Your VIT VOICE Sadhana verification code"

// Config holds the Mailgun settings. APIBase is optional (set it for the EU
// region).
type Config struct {
	Domain  string
	APIKey  string
	APIBase string
	From    string
}

type sender interface {
	Send(ctx context.Context, m *mailgun.Message) (resp string, id string, err error)
}

// Mailgun delivers one-time codes through the Mailgun HTTP API.
type Mailgun struct {
	mg   *mailgun.MailgunImpl
	send sender
	from string
	log  zerolog.Logger
}

var _ ports.Mailer = (*Mailgun)(nil)

func NewMailgun(cfg Config, log zerolog.Logger) *Mailgun {
	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	if cfg.APIBase != "" {
		mg.SetAPIBase(cfg.APIBase)
	}
	return &Mailgun{mg: mg, send: mg, from: cfg.From, log: log}
}

func (m *Mailgun) SendOTP(ctx context.Context, to, name, code string, ttl time.Duration) error {
	msg := m.mg.NewMessage(m.from, otpSubject, otpBody(name, code, ttl), to)

	_, id, err := m.send.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("mailgun send: %w", err)
	}
	m.log.Debug().Str("message_id", id).Msg("otp email queued")
	return nil
}

func otpBody(name, code string, ttl time.Duration) string {
	return fmt.Sprintf("Hare Krishna %s,\n\nYour verification code is %s. It expires in %d minutes.\n\nIf you did not sign up, ignore this email.\n",
		name, code, int(ttl.Minutes()))
}
