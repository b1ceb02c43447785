package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/isdelr/authkit/internal/config"
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// SMTPMailer sends email through an SMTP server.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.SSL = cfg.SSL
	return &SMTPMailer{cfg: cfg, dialer: d}
}

// Send delivers one HTML message. It does not retry.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.FromEmail, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	log.Info().Str("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}

// LogMailer stands in for SMTP when email is not configured.
// It only logs that a message would have been sent.
type LogMailer struct{}

// Send logs the message and succeeds.
func (LogMailer) Send(_ context.Context, to, subject, _ string) error {
	log.Warn().Str("to", to).Str("subject", subject).Msg("Emails are disabled, message not delivered")
	return nil
}

// New returns an SMTPMailer when emails are enabled, otherwise a LogMailer.
func New(cfg *config.Config) Sender {
	if cfg.EmailsEnabled() {
		return NewSMTPMailer(cfg.SMTP)
	}
	return LogMailer{}
}
