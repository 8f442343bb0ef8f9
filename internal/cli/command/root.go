package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shiptrack-go/internal/cli/config"
	"github.com/yndnr/shiptrack-go/internal/cli/connection"
	"github.com/yndnr/shiptrack-go/internal/cli/guard"
	"github.com/yndnr/shiptrack-go/internal/cli/output"
	"github.com/yndnr/shiptrack-go/internal/cli/session"
	"github.com/yndnr/shiptrack-go/internal/infra/buildinfo"
	"github.com/yndnr/shiptrack-go/internal/infra/shutdown"
	"github.com/yndnr/shiptrack-go/internal/telemetry/logger"
	"github.com/yndnr/shiptrack-go/internal/telemetry/metric"
)

const (
	appName = "shiptrack-cli"

	runtimeKey = "runtime"
	ownedKey   = "runtime-owned"

	// requestTimeout bounds every command's API calls.
	requestTimeout = 30 * time.Second
)

// Runtime holds what every command shares. It is built once per process
// by the root Before hook, or injected by tests and the REPL.
type Runtime struct {
	Config  *config.CLIConfig
	Session *session.Manager
	Client  *connection.Client
	Guard   *guard.Guard
	Logger  logger.Logger
	Metrics *metric.Registry

	Out    io.Writer
	ErrOut io.Writer
	Prompt Prompter

	cleanup *shutdown.Handler
}

// NewRuntime wires a client and guard around cfg and sess.
func NewRuntime(cfg *config.CLIConfig, sess *session.Manager, log logger.Logger) *Runtime {
	if log == nil {
		log = logger.Default()
	}
	metrics := metric.NewRegistry()

	rt := &Runtime{
		Config:  cfg,
		Session: sess,
		Guard:   guard.New(sess),
		Logger:  log,
		Metrics: metrics,
		Out:     os.Stdout,
		ErrOut:  os.Stderr,
		cleanup: shutdown.NewHandler(5 * time.Second),
	}
	rt.Prompt = newLinePrompter(os.Stdin, rt.ErrOut)
	rt.Client = connection.NewClient(cfg.APIURL, sess,
		connection.WithLogger(log),
		connection.WithMetrics(metrics),
		connection.WithRateLimit(cfg.RateLimit),
		connection.WithUserAgent(buildinfo.UserAgent()),
	)

	rt.cleanup.OnShutdown(func(context.Context) error {
		return sess.Close()
	})
	rt.cleanup.OnShutdown(func(context.Context) error {
		if cfg.Metrics.Textfile == "" {
			return nil
		}
		metrics.SetAuthenticated(sess.IsAuthenticated())
		return metrics.WriteTextfile(cfg.Metrics.Textfile)
	})
	return rt
}

// Close runs cleanup hooks: metrics are flushed, then the session store
// is closed.
func (rt *Runtime) Close() error {
	return rt.cleanup.Run()
}

// App creates the CLI application. The runtime is built from
// configuration when the app runs.
func App() *cli.App {
	return NewApp(nil)
}

// NewApp creates the CLI application around rt. A nil rt is built from
// configuration by the Before hook and closed by the After hook.
func NewApp(rt *Runtime) *cli.App {
	app := &cli.App{
		Name:                 appName,
		Usage:                "Shipment tracking and IoT device dashboard",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			SignupCommand(),
			LoginCommand(),
			LogoutCommand(),
			StatusCommand(),
			DashboardCommand(),
			ShipmentCommand(),
			DeviceCommand(),
			ConfigCommand(),
			VersionCommand(),
			REPLCommand(),
		},
		Metadata: map[string]any{},
		Before:   setup,
		After:    teardown,
	}
	if rt != nil {
		app.Metadata[runtimeKey] = rt
		app.Writer = rt.Out
		app.ErrWriter = rt.ErrOut
	}
	return app
}

// globalFlags returns the global CLI flags. Flags the user sets override
// the config file and SHIPTRACK_* variables.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (default ~/.shiptrack/cli.yaml)",
			EnvVars: []string{"SHIPTRACK_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "api-url",
			Aliases: []string{"a"},
			Usage:   "Shipment API base URL (e.g., http://localhost:8000)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "session-backend",
			Usage: "Session store: file, badger, memory",
		},
		&cli.StringFlag{
			Name:  "session-path",
			Usage: "Session store location",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Log requests (same as --log-level debug)",
		},
		&cli.Float64Flag{
			Name:  "rate-limit",
			Usage: "Maximum requests per second (0 = unlimited)",
		},
		&cli.StringFlag{
			Name:  "metrics-textfile",
			Usage: "Write request metrics to this file on exit",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
	}
}

// flagOverrides maps explicitly set flags onto config keys.
func flagOverrides(c *cli.Context) map[string]any {
	keys := map[string]string{
		"api-url":          "api_url",
		"output":           "output",
		"session-backend":  "session.backend",
		"session-path":     "session.path",
		"log-level":        "log.level",
		"log-format":       "log.format",
		"metrics-textfile": "metrics.textfile",
	}
	overrides := make(map[string]any)
	for flag, key := range keys {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}
	if c.IsSet("rate-limit") {
		overrides["rate_limit"] = c.Float64("rate-limit")
	}
	if c.Bool("verbose") {
		overrides["log.level"] = "debug"
	}
	return overrides
}

// setup builds the runtime unless one was injected.
func setup(c *cli.Context) error {
	if c.Bool("no-color") {
		output.DisableColor()
	}
	if runtimeFrom(c) != nil {
		return nil
	}

	cfg, err := config.Load(c.String("config"), flagOverrides(c))
	if err != nil {
		return err
	}

	log := logger.New(cfg.LoggerConfig())
	logger.SetDefault(log)

	sess, err := config.OpenSession(cfg, log)
	if err != nil {
		return err
	}

	rt := NewRuntime(cfg, sess, log)
	rt.Out = c.App.Writer
	rt.ErrOut = c.App.ErrWriter
	rt.Prompt = newLinePrompter(os.Stdin, rt.ErrOut)

	c.App.Metadata[runtimeKey] = rt
	c.App.Metadata[ownedKey] = true

	log.Debug("runtime ready",
		"api_url", cfg.APIURL,
		"session_backend", cfg.Session.Backend,
		"state", sess.State().String(),
	)
	return nil
}

// teardown closes a runtime that setup built.
func teardown(c *cli.Context) error {
	owned, _ := c.App.Metadata[ownedKey].(bool)
	rt := runtimeFrom(c)
	if !owned || rt == nil {
		return nil
	}
	if err := rt.Close(); err != nil {
		rt.Logger.Warn("cleanup failed", "error", err)
	}
	return nil
}

// runtimeFrom retrieves the runtime from the app metadata.
func runtimeFrom(c *cli.Context) *Runtime {
	if c == nil || c.App == nil {
		return nil
	}
	rt, _ := c.App.Metadata[runtimeKey].(*Runtime)
	return rt
}

// mustRuntime is runtimeFrom for actions, which always run after setup.
func mustRuntime(c *cli.Context) (*Runtime, error) {
	rt := runtimeFrom(c)
	if rt == nil {
		return nil, fmt.Errorf("%s: not initialized", appName)
	}
	return rt, nil
}

// requestContext derives the context for a command's API calls. It
// carries the logger and the per-command timeout.
func (rt *Runtime) requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	parent := context.Background()
	if c != nil && c.Context != nil {
		parent = c.Context
	}
	return context.WithTimeout(logger.WithLogger(parent, rt.Logger), requestTimeout)
}

// protected guards a command on route. The runtime is looked up when the
// command runs, after setup.
func protected(route string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		rt, err := mustRuntime(c)
		if err != nil {
			return err
		}
		return guard.Require(rt.Guard, route)(c)
	}
}

// format returns the effective output format.
func (rt *Runtime) format(c *cli.Context) output.Format {
	f := rt.Config.Output
	if c.IsSet("output") {
		f = c.String("output")
	}
	parsed, err := output.ParseFormat(f)
	if err != nil {
		return output.FormatTable
	}
	return parsed
}

// render writes data in the chosen format. Table output uses view,
// structured output uses data.
func (rt *Runtime) render(c *cli.Context, view output.Tabular, data any) error {
	format := rt.format(c)
	if format == output.FormatTable && view != nil {
		return output.NewFormatter(format, c.Bool("wide")).Format(rt.Out, view)
	}
	return output.NewFormatter(format, c.Bool("wide")).Format(rt.Out, data)
}

// structured reports whether output is machine-readable, in which case
// commands print no decoration.
func (rt *Runtime) structured(c *cli.Context) bool {
	return rt.format(c) != output.FormatTable
}

// printf writes human-oriented text; it is suppressed for json/yaml.
func (rt *Runtime) printf(c *cli.Context, format string, args ...any) {
	if rt.structured(c) {
		return
	}
	fmt.Fprintf(rt.Out, format, args...)
}
