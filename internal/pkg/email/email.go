// Package email delivers transactional messages over SMTP or SendGrid.
package email

import (
	"context"

	"github.com/rs/zerolog"
)

// Message is one outbound email
type Message struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer sends a single message. Failures wrap apperrors.ErrDelivery.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Providers
const (
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
	ProviderLog      = "log"
)

// Config selects and configures a provider
type Config struct {
	Provider       string
	Host           string
	Port           int
	Username       string
	Password       string
	UseTLS         bool
	SendGridAPIKey string
	FromName       string
	FromEmail      string
}

// NewMailer returns the configured provider. SMTP without credentials falls
// back to the log mailer so local development never blocks on email.
func NewMailer(cfg Config, logger zerolog.Logger) Mailer {
	switch cfg.Provider {
	case ProviderSendGrid:
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromName, cfg.FromEmail)
	case ProviderSMTP:
		if cfg.Host != "" && cfg.Username != "" && cfg.Password != "" {
			return NewSMTPMailer(SMTPConfig{
				Host:      cfg.Host,
				Port:      cfg.Port,
				Username:  cfg.Username,
				Password:  cfg.Password,
				FromName:  cfg.FromName,
				FromEmail: cfg.FromEmail,
				UseTLS:    cfg.UseTLS,
			}, logger)
		}
		logger.Warn().Msg("SMTP credentials not configured - emails will be logged instead of sent")
	}
	return NewLogMailer(logger)
}
