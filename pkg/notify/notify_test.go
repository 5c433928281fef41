package notify

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixelvide/sygmail/pkg/config"
	"github.com/pixelvide/sygmail/pkg/mail"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureMailer records the message it was asked to send.
type captureMailer struct {
	cfg config.MailConfig
	msg *mail.Message
	err error
}

func (m *captureMailer) Send(ctx context.Context, msg *mail.Message) error {
	m.msg = msg
	return m.err
}

func captureFactory(capture *captureMailer) mail.Factory {
	return func(cfg config.MailConfig) (mail.Mailer, error) {
		capture.cfg = cfg
		return capture, nil
	}
}

func strPtr(s string) *string {
	return &s
}

func baseConfig() *config.Config {
	return &config.Config{
		FromAddr:    strPtr("me@example.com"),
		AppPassword: strPtr("abcdefgh1234"),
	}
}

func TestSend_ResolvesFromConfig(t *testing.T) {
	capture := &captureMailer{}
	cfg := baseConfig()
	cfg.To = strPtr("you@example.com")
	cfg.Subject = strPtr("stored subject")
	cfg.Contents = strPtr("stored contents")
	n := New(cfg, config.MailConfig{}, captureFactory(capture), nil)

	err := n.Send(context.Background(), SendParams{})
	require.NoError(t, err)

	require.NotNil(t, capture.msg)
	assert.Equal(t, []string{"you@example.com"}, capture.msg.To)
	assert.Equal(t, "stored subject", capture.msg.Subject)
	assert.Equal(t, "stored contents", capture.msg.Body)
	assert.Nil(t, capture.msg.Attachments)
}

func TestSend_ParamsWinOverConfig(t *testing.T) {
	capture := &captureMailer{}
	cfg := baseConfig()
	cfg.To = strPtr("stored@example.com")
	cfg.Subject = strPtr("stored subject")
	n := New(cfg, config.MailConfig{}, captureFactory(capture), nil)

	err := n.Send(context.Background(), SendParams{
		From:    "explicit@example.com",
		To:      "param@example.com",
		Subject: "param subject",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"param@example.com"}, capture.msg.To)
	assert.Equal(t, "param subject", capture.msg.Subject)
	assert.Equal(t, "explicit@example.com", capture.cfg.Username)
	assert.Equal(t, "explicit@example.com", capture.cfg.FromAddress)
}

func TestSend_RecipientFallsBackToSender(t *testing.T) {
	capture := &captureMailer{}
	n := New(baseConfig(), config.MailConfig{}, captureFactory(capture), nil)

	err := n.Send(context.Background(), SendParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"me@example.com"}, capture.msg.To)
}

func TestSend_DefaultSubjectAndContents(t *testing.T) {
	capture := &captureMailer{}
	n := New(baseConfig(), config.MailConfig{}, captureFactory(capture), nil)

	err := n.Send(context.Background(), SendParams{})
	require.NoError(t, err)

	assert.Equal(t, config.DefaultSubject, capture.msg.Subject)
	script := filepath.Base(os.Args[0])
	assert.Equal(t, script+" has finished running.", capture.msg.Body)
}

func TestSend_MissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{name: "no sender", cfg: &config.Config{AppPassword: strPtr("secret")}},
		{name: "no password", cfg: &config.Config{FromAddr: strPtr("me@example.com")}},
		{name: "empty sender", cfg: &config.Config{FromAddr: strPtr(""), AppPassword: strPtr("secret")}},
		{name: "all unset", cfg: &config.Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factoryCalled := false
			factory := func(cfg config.MailConfig) (mail.Mailer, error) {
				factoryCalled = true
				return &captureMailer{}, nil
			}
			n := New(tt.cfg, config.MailConfig{}, factory, nil)

			err := n.Send(context.Background(), SendParams{})
			assert.ErrorIs(t, err, ErrMissingCredentials)
			assert.False(t, factoryCalled)
		})
	}
}

func TestSend_CredentialNeverFromParams(t *testing.T) {
	n := New(&config.Config{}, config.MailConfig{}, captureFactory(&captureMailer{}), nil)

	// the sender can be given per call but the password cannot
	err := n.Send(context.Background(), SendParams{From: "me@example.com"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestSend_FactoryErrorPropagates(t *testing.T) {
	factoryErr := errors.New("unsupported mailer: carrier-pigeon")
	factory := func(cfg config.MailConfig) (mail.Mailer, error) {
		return nil, factoryErr
	}
	n := New(baseConfig(), config.MailConfig{}, factory, nil)

	err := n.Send(context.Background(), SendParams{})
	assert.ErrorIs(t, err, factoryErr)
}

func TestSend_TransportErrorPropagatesUnwrapped(t *testing.T) {
	transportErr := errors.New("535 authentication failed")
	capture := &captureMailer{err: transportErr}
	n := New(baseConfig(), config.MailConfig{}, captureFactory(capture), nil)

	err := n.Send(context.Background(), SendParams{})
	assert.Equal(t, transportErr, err)
}

func TestSend_TransportCredentials(t *testing.T) {
	capture := &captureMailer{}
	mailCfg := config.MailConfig{Mailer: "smtp", Host: "smtp.gmail.com", Port: 465}
	n := New(baseConfig(), mailCfg, captureFactory(capture), nil)

	err := n.Send(context.Background(), SendParams{})
	require.NoError(t, err)

	assert.Equal(t, "me@example.com", capture.cfg.Username)
	assert.Equal(t, "abcdefgh1234", capture.cfg.Password)
	assert.Equal(t, "me@example.com", capture.cfg.FromAddress)
	assert.Equal(t, "smtp.gmail.com", capture.cfg.Host)
}

func TestSend_HeadersForwardedUnchanged(t *testing.T) {
	capture := &captureMailer{}
	n := New(baseConfig(), config.MailConfig{}, captureFactory(capture), nil)

	headers := map[string][]string{"X-Job-Name": {"backup"}, "X-Priority": {"1"}}
	err := n.Send(context.Background(), SendParams{Headers: headers})
	require.NoError(t, err)
	assert.Equal(t, headers, capture.msg.Headers)
}

func TestRenderContents(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		script   string
		want     string
	}{
		{name: "placeholder", contents: "{script_name} done", script: "backup.sh", want: "backup.sh done"},
		{name: "repeated placeholder", contents: "{script_name} {script_name}", script: "a", want: "a a"},
		{name: "no placeholder", contents: "plain text", script: "backup.sh", want: "plain text"},
		{name: "unknown brace field passes through", contents: "{other} done", script: "backup.sh", want: "{other} done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderContents(tt.contents, tt.script))
		})
	}
}

func TestScriptName(t *testing.T) {
	assert.Equal(t, filepath.Base(os.Args[0]), scriptName())
}

func TestSend_WarningGoesToContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	capture := &captureMailer{}
	n := New(baseConfig(), config.MailConfig{}, captureFactory(capture), nil)

	err := n.Send(ctx, SendParams{Attachments: []string{"missing.txt"}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "missing.txt")
	assert.Contains(t, buf.String(), "missing attachments ignored")
}
