package mail

import (
	"fmt"

	"github.com/pixelvide/sygmail/pkg/config"
)

// Factory builds a Mailer from transport settings. Callers that need a test
// double substitute their own Factory for NewMailer.
type Factory func(cfg config.MailConfig) (Mailer, error)

// NewMailer creates a new Mailer based on the configuration
func NewMailer(cfg config.MailConfig) (Mailer, error) {
	switch cfg.Mailer {
	case "smtp":
		return NewSMTPMailer(cfg), nil
	case "log":
		return NewLogMailer(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported mailer: %s", cfg.Mailer)
	}
}
