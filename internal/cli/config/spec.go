package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yndnr/shiptrack-go/internal/cli/connection"
	"github.com/yndnr/shiptrack-go/internal/cli/output"
)

// Session backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// ErrInvalidBackend is returned for an unknown session.backend.
var ErrInvalidBackend = errors.New("invalid session backend")

// CLIConfig is the configuration for shiptrack-cli.
type CLIConfig struct {
	APIURL           string        `koanf:"api_url" json:"api_url"`
	RecaptchaSiteKey string        `koanf:"recaptcha_site_key" json:"recaptcha_site_key"`
	Output           string        `koanf:"output" json:"output"`
	RateLimit        float64       `koanf:"rate_limit" json:"rate_limit"`
	Session          SessionConfig `koanf:"session" json:"session"`
	Log              LogConfig     `koanf:"log" json:"log"`
	Metrics          MetricsConfig `koanf:"metrics" json:"metrics"`
}

// SessionConfig selects where the bearer token is kept.
type SessionConfig struct {
	Backend string `koanf:"backend" json:"backend"` // file, badger, memory
	Path    string `koanf:"path" json:"path"`       // empty = backend default
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level  string `koanf:"level" json:"level"`
	Format string `koanf:"format" json:"format"`
}

// MetricsConfig controls the request metrics dump.
type MetricsConfig struct {
	// Textfile, when set, receives the metrics in Prometheus text format
	// when the process exits.
	Textfile string `koanf:"textfile" json:"textfile"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		APIURL: connection.DefaultBaseURL,
		Output: string(output.FormatTable),
		Session: SessionConfig{
			Backend: BackendFile,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Flatten returns the configuration as dotted koanf keys.
func (c *CLIConfig) Flatten() map[string]any {
	return map[string]any{
		"api_url":            c.APIURL,
		"recaptcha_site_key": c.RecaptchaSiteKey,
		"output":             c.Output,
		"rate_limit":         c.RateLimit,
		"session.backend":    c.Session.Backend,
		"session.path":       c.Session.Path,
		"log.level":          c.Log.Level,
		"log.format":         c.Log.Format,
		"metrics.textfile":   c.Metrics.Textfile,
	}
}

// Validate checks enumerated values.
func (c *CLIConfig) Validate() error {
	if _, err := output.ParseFormat(c.Output); err != nil {
		return err
	}
	switch strings.ToLower(c.Session.Backend) {
	case BackendFile, BackendBadger, BackendMemory:
	default:
		return fmt.Errorf("%w %q (want file, badger or memory)", ErrInvalidBackend, c.Session.Backend)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", c.Log.Format)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("invalid rate_limit %v: must not be negative", c.RateLimit)
	}
	return nil
}
