package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shiptrack-go/internal/cli/guard"
	"github.com/yndnr/shiptrack-go/internal/cli/repl"
	"github.com/yndnr/shiptrack-go/internal/cli/session"
	"github.com/yndnr/shiptrack-go/internal/infra/shutdown"
	"github.com/yndnr/shiptrack-go/internal/telemetry/logger"
)

// nestedKey marks apps run from inside the REPL.
const nestedKey = "repl-nested"

// REPLCommand returns the interactive shell command.
func REPLCommand() *cli.Command {
	return &cli.Command{
		Name:    "repl",
		Aliases: []string{"shell"},
		Usage:   "Start an interactive shell; routes such as /dashboard navigate",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not read or write the history file",
			},
		},
		Action: runREPL,
	}
}

func runREPL(c *cli.Context) error {
	if nested, _ := c.App.Metadata[nestedKey].(bool); nested {
		return errors.New("already in the shell")
	}
	rt, err := mustRuntime(c)
	if err != nil {
		return err
	}

	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := shutdown.WithSignals(logger.WithLogger(parent, rt.Logger))
	defer stop()

	history := repl.NewHistory(repl.DefaultHistoryPath())
	if c.Bool("no-history") {
		history = repl.NewHistory("")
	}
	if err := history.Load(); err != nil {
		rt.Logger.Debug("history not loaded", "error", err)
	}
	defer func() {
		if err := history.Save(); err != nil {
			rt.Logger.Debug("history not saved", "error", err)
		}
	}()

	shell := repl.New(repl.Options{
		In:        c.App.Reader,
		Out:       rt.Out,
		Exec:      rt.execLine,
		Resolve:   resolveRoute,
		Redirect:  redirectRoute,
		Prompt:    rt.shellPrompt,
		History:   history,
		Completer: repl.NewCompleter(commandNames(c.App.Commands)...),
	})

	// Form fields asked for by commands come from the shell's input.
	previous := rt.Prompt
	rt.Prompt = shell
	defer func() { rt.Prompt = previous }()

	if fs, ok := rt.Session.Store().(*session.FileStore); ok {
		go rt.watchSession(ctx, fs)
	}

	fmt.Fprintf(rt.Out, "%s interactive shell. Type 'help' for commands, 'exit' to quit.\n", appName)
	return shell.Run(ctx)
}

// execLine runs one shell line through a fresh app sharing rt.
func (rt *Runtime) execLine(ctx context.Context, args []string) error {
	app := NewApp(rt)
	app.Metadata[nestedKey] = true
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app.RunContext(ctx, append([]string{appName}, args...))
}

// shellPrompt shows whether the session is authenticated.
func (rt *Runtime) shellPrompt() string {
	if rt.Session.IsAuthenticated() {
		return "shiptrack> "
	}
	return "shiptrack (anonymous)> "
}

// watchSession reports logins and logouts made by other processes.
func (rt *Runtime) watchSession(ctx context.Context, fs *session.FileStore) {
	if err := os.MkdirAll(filepath.Dir(fs.Path()), 0o700); err != nil {
		rt.Logger.Debug("session watch skipped", "error", err)
		return
	}
	err := session.Watch(ctx, rt.Session, fs, func(state session.State) {
		fmt.Fprintf(rt.Out, "\nsession changed: %s\n%s", state, rt.shellPrompt())
	})
	if err != nil {
		rt.Logger.Debug("session watch stopped", "error", err)
	}
}

// commandNames lists top-level command names and their aliases.
func commandNames(cmds []*cli.Command) []string {
	names := []string{"h"}
	for _, cmd := range cmds {
		names = append(names, cmd.Names()...)
	}
	return names
}

// redirectRoute resolves the target of a login redirect. The interrupted
// line is retried afterwards, so login skips its own dashboard.
func redirectRoute(route string) ([]string, bool) {
	args, ok := resolveRoute(route)
	if ok && len(args) > 0 && args[0] == "login" {
		args = append(args, "--no-dashboard")
	}
	return args, ok
}

// resolveRoute maps a navigation route to the command that shows it.
func resolveRoute(route string) ([]string, bool) {
	r, ok := guard.Match(route)
	if !ok {
		return nil, false
	}
	if r.Access == guard.Alias {
		return resolveRoute(r.Target)
	}
	switch r.Pattern {
	case guard.LoginRoute:
		return []string{"login"}, true
	case guard.SignupRoute:
		return []string{"signup"}, true
	case guard.DashboardRoute:
		return []string{"dashboard"}, true
	case guard.CreateShipmentRoute:
		return []string{"shipment", "create"}, true
	case guard.DeviceDataRoute:
		return []string{"device", "list"}, true
	case guard.DeviceDetailRoute:
		id, _ := guard.Param(guard.DeviceDetailRoute, route, "id")
		return []string{"device", "get", id}, true
	}
	return nil, false
}
