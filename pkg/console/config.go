package console

import (
	"fmt"
	"os"

	"github.com/pixelvide/sygmail/pkg/config"
	"github.com/pixelvide/sygmail/pkg/root"
	"github.com/spf13/cobra"
)

// NewConfigCommand builds the config command with its set, reset and show
// subcommands.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the persisted sygmail configuration",
	}
	cmd.AddCommand(newConfigSetCommand(), newConfigResetCommand(), newConfigShowCommand())
	return cmd
}

func newConfigSetCommand() *cobra.Command {
	var (
		envPath         string
		from            string
		appPassword     string
		to              string
		subject         string
		contents        string
		attachmentsPath string
	)

	cmd := &cobra.Command{
		Use:          "set",
		Short:        "Set config values and persist them",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envPath, os.LookupEnv)
			if err != nil {
				return err
			}

			// only flags actually passed are applied, so --from="" sets the
			// empty string while an absent flag leaves the field alone
			flags := cmd.Flags()
			if flags.Changed("from") {
				cfg.FromAddr = &from
			}
			if flags.Changed("app-password") {
				cfg.AppPassword = &appPassword
			}
			if flags.Changed("to") {
				cfg.To = &to
			}
			if flags.Changed("subject") {
				cfg.Subject = &subject
			}
			if flags.Changed("contents") {
				cfg.Contents = &contents
			}
			if flags.Changed("attachments-path") {
				cfg.AttachmentsPath = &attachmentsPath
			}

			return cfg.Save(envPath)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&envPath, "env", ".env", "Path to the env file")
	flags.StringVar(&from, "from", "", "From address")
	flags.StringVar(&appPassword, "app-password", "", "SMTP app password")
	flags.StringVar(&to, "to", "", "To address")
	flags.StringVar(&subject, "subject", "", "Email subject")
	flags.StringVar(&contents, "contents", "", "Email contents")
	flags.StringVar(&attachmentsPath, "attachments-path", "", "Path to auto-attach files")

	return cmd
}

func newConfigResetCommand() *cobra.Command {
	var envPath string

	cmd := &cobra.Command{
		Use:          "reset",
		Short:        "Reset subject and contents to their defaults",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envPath, os.LookupEnv)
			if err != nil {
				return err
			}
			cfg.ResetSubjectContents()
			return cfg.Save(envPath)
		},
	}

	cmd.Flags().StringVar(&envPath, "env", ".env", "Path to the env file")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var (
		envPath string
		raw     bool
	)

	cmd := &cobra.Command{
		Use:          "show",
		Short:        "Show current config values",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envPath, os.LookupEnv)
			if err != nil {
				return err
			}

			appPassword := value(cfg.AppPassword)
			if !raw {
				appPassword = maskSecret(appPassword)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s=%s\n", config.KeyFrom, value(cfg.FromAddr))
			fmt.Fprintf(out, "%s=%s\n", config.KeyAppPassword, appPassword)
			fmt.Fprintf(out, "%s=%s\n", config.KeyTo, value(cfg.To))
			fmt.Fprintf(out, "%s=%s\n", config.KeySubject, value(cfg.Subject))
			fmt.Fprintf(out, "%s=%s\n", config.KeyContents, value(cfg.Contents))
			fmt.Fprintf(out, "%s=%s\n", config.KeyAttachmentsPath, value(cfg.AttachmentsPath))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&envPath, "env", ".env", "Path to the env file")
	flags.BoolVar(&raw, "raw", false, "Show secrets without masking")

	return cmd
}

// maskSecret hides all but the last four characters of a secret. Secrets of
// four characters or fewer are fully masked.
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

func value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func init() {
	root.GetRoot().AddCommand(NewConfigCommand())
}
