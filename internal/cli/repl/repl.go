package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/yndnr/shiptrack-go/internal/cli/guard"
)

// Options wires the REPL to the command tree.
type Options struct {
	In  io.Reader
	Out io.Writer

	// Exec runs one command line, already split into arguments.
	Exec func(ctx context.Context, args []string) error
	// Resolve maps a route such as "/device-data/1150" to command
	// arguments. ok is false for routes with no command.
	Resolve func(route string) (args []string, ok bool)
	// Redirect maps the target of a login redirect to command arguments.
	// Defaults to Resolve.
	Redirect func(route string) (args []string, ok bool)
	// Prompt returns the prompt shown before each line.
	Prompt func() string

	History   *History
	Completer *Completer
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	reader    *bufio.Reader
	output    io.Writer
	exec      func(ctx context.Context, args []string) error
	resolve   func(route string) ([]string, bool)
	redirect  func(route string) ([]string, bool)
	prompt    func() string
	completer *Completer
	history   *History
}

// New creates a REPL from opts. Missing hooks get inert defaults.
func New(opts Options) *REPL {
	r := &REPL{
		reader:    bufio.NewReader(opts.In),
		output:    opts.Out,
		exec:      opts.Exec,
		resolve:   opts.Resolve,
		redirect:  opts.Redirect,
		prompt:    opts.Prompt,
		completer: opts.Completer,
		history:   opts.History,
	}
	if r.exec == nil {
		r.exec = func(context.Context, []string) error { return nil }
	}
	if r.resolve == nil {
		r.resolve = func(string) ([]string, bool) { return nil, false }
	}
	if r.redirect == nil {
		r.redirect = r.resolve
	}
	if r.prompt == nil {
		r.prompt = func() string { return "shiptrack> " }
	}
	if r.completer == nil {
		r.completer = NewCompleter()
	}
	if r.history == nil {
		r.history = NewHistory("")
	}
	return r
}

// Prompt prints label and reads one line from the REPL's input. Commands
// use it to ask for missing form fields so they share the line buffer.
func (r *REPL) Prompt(label string) (string, error) {
	fmt.Fprintf(r.output, "%s: ", label)
	line, err := r.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Run starts the loop. It returns nil on exit, quit or end of input.
func (r *REPL) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(r.output, r.prompt())

		line, err := r.reader.ReadString('\n')
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		switch line {
		case "exit", "quit":
			return nil
		case "history":
			for i, entry := range r.history.Entries() {
				fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
			}
			continue
		}

		if err := r.execute(ctx, line); err != nil {
			fmt.Fprintf(r.output, "error: %v\n", err)
		}
	}
}

func (r *REPL) execute(ctx context.Context, line string) error {
	args, err := r.parse(line)
	if err != nil || len(args) == 0 {
		return err
	}
	if name := args[0]; !strings.HasPrefix(name, "-") && !r.completer.Known(name) {
		return unknownCommand(name, r.completer.Suggest(name))
	}

	err = r.exec(ctx, args)
	var redirect *guard.RedirectError
	if !errors.As(err, &redirect) {
		return err
	}

	fmt.Fprintf(r.output, "not logged in, redirecting to %s\n", redirect.To)
	target, ok := r.redirect(redirect.To)
	if !ok {
		return err
	}
	if err := r.exec(ctx, target); err != nil {
		return err
	}
	return r.exec(ctx, args)
}

// parse splits a line into arguments. Routes ("/dashboard") are resolved
// to their command.
func (r *REPL) parse(line string) ([]string, error) {
	args, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(args) == 1 && strings.HasPrefix(args[0], "/") {
		resolved, ok := r.resolve(args[0])
		if !ok {
			return nil, fmt.Errorf("unknown route %s", args[0])
		}
		return resolved, nil
	}
	return args, nil
}

func unknownCommand(name string, suggestions []string) error {
	if len(suggestions) == 0 {
		return fmt.Errorf("unknown command %q", name)
	}
	return fmt.Errorf("unknown command %q, did you mean: %s", name, strings.Join(suggestions, ", "))
}
