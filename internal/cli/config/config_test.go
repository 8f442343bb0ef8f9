package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yndnr/shiptrack-go/internal/cli/session"
	"github.com/yndnr/shiptrack-go/internal/telemetry/logger"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.APIURL != "http://localhost:8000" {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, "http://localhost:8000")
	}
	if cfg.Output != "table" {
		t.Errorf("Output = %q, want table", cfg.Output)
	}
	if cfg.Session.Backend != BackendFile {
		t.Errorf("Session.Backend = %q, want file", cfg.Session.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if !filepath.IsAbs(path) {
		t.Errorf("path %q should be absolute", path)
	}
	if got := filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)); got != filepath.Join(".shiptrack", "cli.yaml") {
		t.Errorf("path = %q, want suffix .shiptrack/cli.yaml", path)
	}
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIURL != "http://localhost:8000" || cfg.Log.Level != "warn" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("Load() should fail when a named file is missing")
	}
}

func TestLoad_FileEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	content := `
api_url: http://file:8000
recaptcha_site_key: site-key
output: yaml
session:
  backend: memory
log:
  level: info
metrics:
  textfile: /tmp/shiptrack.prom
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHIPTRACK_OUTPUT", "json")

	cfg, err := Load(path, map[string]any{"log.level": "debug"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIURL != "http://file:8000" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.RecaptchaSiteKey != "site-key" {
		t.Errorf("RecaptchaSiteKey = %q", cfg.RecaptchaSiteKey)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, env should win over file", cfg.Output)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, override should win", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, default should fill in", cfg.Log.Format)
	}
	if cfg.Session.Backend != BackendMemory {
		t.Errorf("Session.Backend = %q", cfg.Session.Backend)
	}
	if cfg.Metrics.Textfile != "/tmp/shiptrack.prom" {
		t.Errorf("Metrics.Textfile = %q", cfg.Metrics.Textfile)
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load("", map[string]any{"session.backend": "redis"})
	if !errors.Is(err, ErrInvalidBackend) {
		t.Errorf("err = %v, want ErrInvalidBackend", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CLIConfig)
		wantErr bool
	}{
		{"default", func(*CLIConfig) {}, false},
		{"badger", func(c *CLIConfig) { c.Session.Backend = "badger" }, false},
		{"bad output", func(c *CLIConfig) { c.Output = "xml" }, true},
		{"bad log format", func(c *CLIConfig) { c.Log.Format = "logfmt" }, true},
		{"negative rate", func(c *CLIConfig) { c.RateLimit = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionPath(t *testing.T) {
	cfg := Default()
	if cfg.SessionPath() != session.DefaultFilePath() {
		t.Errorf("file default = %q", cfg.SessionPath())
	}
	cfg.Session.Backend = BackendBadger
	if cfg.SessionPath() != session.DefaultBadgerDir() {
		t.Errorf("badger default = %q", cfg.SessionPath())
	}
	cfg.Session.Path = "/custom"
	if cfg.SessionPath() != "/custom" {
		t.Errorf("explicit path = %q", cfg.SessionPath())
	}
}

func TestOpenSession(t *testing.T) {
	dir := t.TempDir()
	for _, backend := range []string{BackendFile, BackendBadger, BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			cfg := Default()
			cfg.Session.Backend = backend
			cfg.Session.Path = filepath.Join(dir, backend)

			sess, err := OpenSession(cfg, logger.Discard())
			if err != nil {
				t.Fatalf("OpenSession() error = %v", err)
			}
			defer sess.Close()

			if err := sess.SetToken("tok123"); err != nil {
				t.Fatalf("SetToken() error = %v", err)
			}
			if !sess.IsAuthenticated() {
				t.Error("expected authenticated session")
			}
		})
	}

	cfg := Default()
	cfg.Session.Backend = "redis"
	if _, err := OpenSession(cfg, logger.Discard()); !errors.Is(err, ErrInvalidBackend) {
		t.Errorf("err = %v, want ErrInvalidBackend", err)
	}
}

func TestLoggerConfig(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"
	lc := cfg.LoggerConfig()
	if lc.Level != "debug" || lc.Format != "json" || lc.Output == nil {
		t.Errorf("LoggerConfig() = %+v", lc)
	}
}

func TestFlatten(t *testing.T) {
	cfg := Default()
	cfg.Metrics.Textfile = "/tmp/m.prom"
	flat := cfg.Flatten()

	if flat["api_url"] != "http://localhost:8000" || flat["session.backend"] != "file" || flat["metrics.textfile"] != "/tmp/m.prom" {
		t.Errorf("Flatten() = %v", flat)
	}
	if len(flat) != 9 {
		t.Errorf("Flatten() has %d keys, want 9", len(flat))
	}
}
