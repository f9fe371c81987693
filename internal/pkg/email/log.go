package email

import (
	"context"

	"github.com/rs/zerolog"
)

// LogMailer writes the envelope to the log instead of sending. The body is
// never logged because it carries a plaintext password.
type LogMailer struct {
	logger zerolog.Logger
}

// NewLogMailer creates a development mailer
func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("Email not sent (log mailer)")
	return nil
}
