// Package sygmail sends templated notification emails (e.g. "job finished"
// pings) over SMTP, with settings persisted to a local env file and
// overridable via environment variables or command-line flags.
//
// Key subpackages:
//
//	github.com/pixelvide/sygmail/pkg/config    - Env-file configuration record and SMTP transport settings
//	github.com/pixelvide/sygmail/pkg/notify    - Parameter resolution, templating, and attachment discovery
//	github.com/pixelvide/sygmail/pkg/mail      - Mailer interface with SMTP and log transports
//	github.com/pixelvide/sygmail/pkg/console   - The send and config commands
//
// Example Usage:
//
//	package main
//
//	import (
//		"context"
//		"os"
//
//		"github.com/pixelvide/sygmail/pkg/config"
//		"github.com/pixelvide/sygmail/pkg/mail"
//		"github.com/pixelvide/sygmail/pkg/notify"
//	)
//
//	func main() {
//		cfg, _ := config.Load(".env", os.LookupEnv)
//		mailCfg, _ := config.LoadMailConfig(".env")
//		n := notify.New(cfg, mailCfg, mail.NewMailer, nil)
//		_ = n.Send(context.Background(), notify.SendParams{Subject: "backup finished"})
//	}
package sygmail
