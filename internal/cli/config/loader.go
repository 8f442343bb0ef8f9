package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yndnr/shiptrack-go/internal/cli/session"
	"github.com/yndnr/shiptrack-go/internal/infra/confloader"
	"github.com/yndnr/shiptrack-go/internal/telemetry/logger"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".shiptrack", "cli.yaml")
}

// Load reads configuration from defaults, path, SHIPTRACK_* environment
// variables and overrides, in increasing priority. A missing file at the
// default path is fine; a missing file the user named is an error.
func Load(path string, overrides map[string]any) (*CLIConfig, error) {
	optional := path == ""
	if optional {
		path = DefaultConfigPath()
	}

	l := confloader.NewLoader(
		confloader.WithConfigFile(path, optional),
		confloader.WithDefaults(Default().Flatten()),
	)

	cfg := &CLIConfig{}
	if err := l.Load(cfg, overrides); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoggerConfig converts the log section for logger.New.
func (c *CLIConfig) LoggerConfig() logger.Config {
	lc := logger.DefaultConfig()
	if c.Log.Level != "" {
		lc.Level = c.Log.Level
	}
	if c.Log.Format != "" {
		lc.Format = c.Log.Format
	}
	return lc
}

// SessionPath is the effective store location for the configured backend.
func (c *CLIConfig) SessionPath() string {
	if c.Session.Path != "" {
		return c.Session.Path
	}
	switch strings.ToLower(c.Session.Backend) {
	case BackendBadger:
		return session.DefaultBadgerDir()
	case BackendMemory:
		return ""
	default:
		return session.DefaultFilePath()
	}
}

// OpenSession opens the configured session backend. The caller closes the
// returned manager.
func OpenSession(cfg *CLIConfig, log logger.Logger) (*session.Manager, error) {
	var store session.Store
	switch strings.ToLower(cfg.Session.Backend) {
	case BackendFile, "":
		store = session.NewFileStore(cfg.SessionPath())
	case BackendMemory:
		store = session.NewMemoryStore()
	case BackendBadger:
		bs, err := session.OpenBadgerStore(cfg.SessionPath(), log)
		if err != nil {
			return nil, fmt.Errorf("open session: %w", err)
		}
		store = bs
	default:
		return nil, fmt.Errorf("%w %q", ErrInvalidBackend, cfg.Session.Backend)
	}
	return session.NewManager(store), nil
}
