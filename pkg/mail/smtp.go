package mail

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/google/uuid"
	"github.com/pixelvide/sygmail/pkg/config"
	"gopkg.in/gomail.v2"
)

// SMTPMailer implements Mailer using gomail
type SMTPMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send sends the given message over SMTP. The dial blocks until the server
// responds; transport errors are returned as-is, without retries.
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := buildMessage(m.cfg, msg)

	// gomail uses implicit SSL when the port is 465 and STARTTLS otherwise
	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if m.cfg.InsecureSkipVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return d.DialAndSend(gm)
}

// buildMessage renders a Message into a gomail message.
func buildMessage(cfg config.MailConfig, msg *Message) *gomail.Message {
	gm := gomail.NewMessage()

	// Set default From address if not provided
	if msg.From == "" && cfg.FromAddress != "" {
		gm.SetAddressHeader("From", cfg.FromAddress, cfg.FromName)
	} else {
		gm.SetHeader("From", msg.From)
	}
	gm.SetHeader("To", msg.To...)
	if len(msg.Cc) > 0 {
		gm.SetHeader("Cc", msg.Cc...)
	}
	if len(msg.Bcc) > 0 {
		gm.SetHeader("Bcc", msg.Bcc...)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetHeader("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), cfg.Host))
	for name, values := range msg.Headers {
		gm.SetHeader(name, values...)
	}

	contentType := "text/plain"
	if msg.ContentType != "" {
		contentType = msg.ContentType
	}
	gm.SetBody(contentType, msg.Body)

	for _, path := range msg.Attachments {
		gm.Attach(path)
	}

	return gm
}
