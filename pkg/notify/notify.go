// Package notify resolves send-time parameters from explicit arguments and
// loaded configuration, then hands the finished message to a mail transport.
package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pixelvide/sygmail/pkg/config"
	"github.com/pixelvide/sygmail/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// scriptNamePlaceholder is replaced in the contents template with the base
// filename of the running program.
const scriptNamePlaceholder = "{script_name}"

// ErrMissingCredentials is returned when the sender address or app password
// cannot be resolved from the parameters or the configuration.
var ErrMissingCredentials = errors.New("from address and app password are required")

// SendParams carries the per-send overrides. Empty string means "not given";
// the value then falls back through the configuration. Attachments is the
// one exception: a nil slice means "not given" (the attachments path is
// scanned instead) while a non-nil slice, even empty, is used as the
// explicit attachment list.
type SendParams struct {
	From            string
	To              string
	Subject         string
	Contents        string
	Attachments     []string
	AttachmentsPath string
	Headers         map[string][]string
}

// Notifier resolves notification parameters against a loaded configuration
// and sends through a transport built by the factory.
type Notifier struct {
	cfg     *config.Config
	mailCfg config.MailConfig
	factory mail.Factory
	tracer  trace.Tracer
}

// New creates a Notifier. The tracer may be nil, in which case sends are not
// traced.
func New(cfg *config.Config, mailCfg config.MailConfig, factory mail.Factory, tracer trace.Tracer) *Notifier {
	return &Notifier{
		cfg:     cfg,
		mailCfg: mailCfg,
		factory: factory,
		tracer:  tracer,
	}
}

// Send resolves the final sender, recipient, subject, contents and
// attachments, validates them, and sends the message. Validation failures
// are returned before any transport is built; transport errors propagate
// unmodified. There are no retries.
func (n *Notifier) Send(ctx context.Context, params SendParams) error {
	if n.tracer == nil {
		return n.send(ctx, params)
	}

	ctx, span := n.tracer.Start(ctx, "notify.send")
	defer span.End()

	err := n.send(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (n *Notifier) send(ctx context.Context, params SendParams) error {
	from := firstNonEmpty(params.From, deref(n.cfg.FromAddr))
	password := deref(n.cfg.AppPassword)
	to := firstNonEmpty(params.To, deref(n.cfg.To), from)

	if from == "" || password == "" || to == "" {
		return ErrMissingCredentials
	}

	subject := firstNonEmpty(params.Subject, deref(n.cfg.Subject), config.DefaultSubject)
	contents := firstNonEmpty(params.Contents, deref(n.cfg.Contents), config.DefaultContentsTemplate)
	contents = renderContents(contents, scriptName())

	attachments := n.resolveAttachments(ctx, params)

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("mail.to", to),
		attribute.String("mail.subject", subject),
		attribute.Int("mail.attachments", len(attachments)),
	)

	mailCfg := n.mailCfg
	mailCfg.Username = from
	mailCfg.Password = password
	mailCfg.FromAddress = from

	mailer, err := n.factory(mailCfg)
	if err != nil {
		return err
	}

	return mailer.Send(ctx, &mail.Message{
		To:          []string{to},
		Subject:     subject,
		Body:        contents,
		Attachments: attachments,
		Headers:     params.Headers,
	})
}

// renderContents substitutes the script-name placeholder. Rendering never
// fails; a template without the placeholder passes through unchanged.
func renderContents(contents, scriptName string) string {
	if !strings.Contains(contents, scriptNamePlaceholder) {
		return contents
	}
	return strings.ReplaceAll(contents, scriptNamePlaceholder, scriptName)
}

// scriptName returns the base filename of the running program, or "script"
// when argv is empty.
func scriptName() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return "script"
	}
	return filepath.Base(os.Args[0])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
