package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Default subject and contents used when the corresponding field is unset.
const (
	DefaultSubject          = "Process Completed"
	DefaultContentsTemplate = "{script_name} has finished running."
)

// Fixed keys shared by the env file and the process environment.
const (
	KeyFrom            = "SYGMAIL_FROM"
	KeyAppPassword     = "SYGMAIL_APP_PASSWORD"
	KeyTo              = "SYGMAIL_TO"
	KeySubject         = "SYGMAIL_SUBJECT"
	KeyContents        = "SYGMAIL_CONTENTS"
	KeyAttachmentsPath = "SYGMAIL_ATTACHMENTS_PATH"
)

// Keys lists the fixed keys in the order they are written to the env file.
var Keys = []string{KeyFrom, KeyAppPassword, KeyTo, KeySubject, KeyContents, KeyAttachmentsPath}

// LookupFunc resolves an environment variable. os.LookupEnv in production;
// tests inject a map-backed lookup so they never touch the process environment.
type LookupFunc func(key string) (string, bool)

// Config holds the six sygmail settings. Fields are pointers because an
// unset field is distinct from one explicitly set to the empty string.
type Config struct {
	FromAddr        *string
	AppPassword     *string
	To              *string
	Subject         *string
	Contents        *string
	AttachmentsPath *string
}

// Load builds a Config by layering, lowest to highest precedence: an
// all-unset record, values parsed from the env file at path, and values from
// the fixed environment keys (exact-case checked before lowercase). A
// missing file is not an error; the record then carries env values only.
func Load(path string, lookup LookupFunc) (*Config, error) {
	cfg := &Config{}

	values, err := readEnvFile(path)
	if err != nil {
		return nil, err
	}
	for key, value := range values {
		cfg.set(key, value)
	}

	if lookup != nil {
		for _, key := range Keys {
			value, ok := lookup(key)
			if !ok {
				value, ok = lookup(strings.ToLower(key))
			}
			if ok {
				cfg.set(key, value)
			}
		}
	}

	return cfg, nil
}

// Save writes all fields to the env file at path as KEY=value lines in fixed
// key order, replacing an unset or empty subject/contents with the defaults
// and omitting the attachments-path line when the field is unset. The file is
// overwritten in full; fields not carried by this record are lost. Mode 0600
// since the file holds an app password.
func (c *Config) Save(path string) error {
	lines := []string{
		KeyFrom + "=" + orEmpty(c.FromAddr),
		KeyAppPassword + "=" + orEmpty(c.AppPassword),
		KeyTo + "=" + orEmpty(c.To),
		KeySubject + "=" + orDefault(c.Subject, DefaultSubject),
		KeyContents + "=" + orDefault(c.Contents, DefaultContentsTemplate),
	}
	if c.AttachmentsPath != nil {
		lines = append(lines, KeyAttachmentsPath+"="+*c.AttachmentsPath)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		return fmt.Errorf("write env file: %w", err)
	}
	return nil
}

// ResetSubjectContents restores the subject and contents fields to their
// fixed defaults, leaving all other fields untouched.
func (c *Config) ResetSubjectContents() {
	subject := DefaultSubject
	contents := DefaultContentsTemplate
	c.Subject = &subject
	c.Contents = &contents
}

// set assigns value to the field matching the (already upper-cased) key.
// Unknown keys are ignored.
func (c *Config) set(key, value string) {
	v := value
	switch key {
	case KeyFrom:
		c.FromAddr = &v
	case KeyAppPassword:
		c.AppPassword = &v
	case KeyTo:
		c.To = &v
	case KeySubject:
		c.Subject = &v
	case KeyContents:
		c.Contents = &v
	case KeyAttachmentsPath:
		c.AttachmentsPath = &v
	}
}

// readEnvFile parses the KEY=value file at path. Blank lines, comments,
// lines without a separator, and lines with an empty key are skipped
// silently. Keys are upper-cased before matching; surrounding single or
// double quotes are stripped from values.
func readEnvFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}

	values := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return values, nil
}

func orEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func orDefault(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}
