package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MailConfig holds the SMTP transport settings. Unlike Config these are not
// persisted by sygmail; they come from the environment, with the sygmail env
// file merged in first so server settings can live next to the credentials.
// Username, Password, FromAddress and FromName carry no env tags: they are
// filled at send time from the resolved sender and app password.
type MailConfig struct {
	Mailer             string `env:"SYGMAIL_MAILER" envDefault:"smtp"`
	Host               string `env:"SYGMAIL_SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port               int    `env:"SYGMAIL_SMTP_PORT" envDefault:"465"`
	InsecureSkipVerify bool   `env:"SYGMAIL_SMTP_INSECURE_SKIP_VERIFY" envDefault:"false"`
	Username           string
	Password           string
	FromAddress        string
	FromName           string
}

// LoadMailConfig merges the env file at envPath into the process environment
// (never overriding variables already set) and parses the transport settings.
// A missing env file is fine; the environment and defaults still apply.
func LoadMailConfig(envPath string) (MailConfig, error) {
	_ = godotenv.Load(envPath)

	cfg := MailConfig{}
	if err := env.Parse(&cfg); err != nil {
		return MailConfig{}, err
	}
	return cfg, nil
}
