package console

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pixelvide/sygmail/pkg/config"
	"github.com/pixelvide/sygmail/pkg/mail"
	"github.com/pixelvide/sygmail/pkg/notify"
	"github.com/pixelvide/sygmail/pkg/root"
	"github.com/pixelvide/sygmail/pkg/telemetry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
)

// cliDefaultContents is the body used when send is invoked without --contents.
const cliDefaultContents = "[sygmail notification]"

// NewSendCommand builds the send command. Commands are built by constructors
// so tests can execute fresh instances with their own flag state.
func NewSendCommand() *cobra.Command {
	var (
		envPath         string
		from            string
		to              string
		subject         string
		contents        string
		attachments     []string
		attachmentsPath string
		headers         []string
		dryRun          bool
		withTrace       bool
	)

	cmd := &cobra.Command{
		Use:          "send",
		Short:        "Send a notification email",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := log.Logger.WithContext(cmd.Context())

			extraHeaders, err := parseHeaders(headers)
			if err != nil {
				return err
			}

			var tracer trace.Tracer
			if withTrace {
				tp, err := telemetry.InitTracer("sygmail")
				if err != nil {
					return err
				}
				defer func() {
					if err := tp.Shutdown(context.Background()); err != nil {
						log.Error().Err(err).Msg("Error shutting down tracer")
					}
				}()
				tracer = tp.Tracer("sygmail")
			}

			cfg, err := config.Load(envPath, os.LookupEnv)
			if err != nil {
				return err
			}
			mailCfg, err := config.LoadMailConfig(envPath)
			if err != nil {
				return err
			}
			if dryRun {
				mailCfg.Mailer = "log"
			}

			params := notify.SendParams{
				From:            from,
				To:              to,
				Subject:         subject,
				Contents:        contents,
				AttachmentsPath: attachmentsPath,
				Headers:         extraHeaders,
			}
			if !cmd.Flags().Changed("contents") {
				params.Contents = cliDefaultContents
			}
			// --attachments given, even as an empty value, means an explicit
			// list; absent means the attachments path is scanned instead
			if cmd.Flags().Changed("attachments") {
				params.Attachments = attachments
			}

			notifier := notify.New(cfg, mailCfg, mail.NewMailer, tracer)
			return notifier.Send(ctx, params)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&envPath, "env", ".env", "Path to the env file")
	flags.StringVar(&from, "from", "", "From address")
	flags.StringVar(&to, "to", "", "To address")
	flags.StringVar(&subject, "subject", "", "Email subject")
	flags.StringVar(&contents, "contents", "", "Email contents")
	flags.StringArrayVar(&attachments, "attachments", nil, "Attachment file path (repeatable)")
	flags.StringVar(&attachmentsPath, "attachments-path", "", "Path to auto-attach files")
	flags.StringArrayVar(&headers, "header", nil, `Extra header as "Name: Value" (repeatable)`)
	flags.BoolVar(&dryRun, "dry-run", false, "Log the message instead of sending it")
	flags.BoolVar(&withTrace, "trace", false, "Trace the send with the stdout exporter")

	return cmd
}

// parseHeaders turns repeated "Name: Value" flags into message headers.
func parseHeaders(raw []string) (map[string][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string][]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: Value\"", h)
		}
		headers[name] = append(headers[name], strings.TrimSpace(value))
	}
	return headers, nil
}

func init() {
	root.GetRoot().AddCommand(NewSendCommand())
}
