package repl

import (
	"slices"
	"sort"
	"strings"

	"github.com/yndnr/shiptrack-go/internal/cli/guard"
)

// Commands known to the completer.
var Commands = []string{
	"signup", "login", "logout", "status",
	"dashboard",
	"shipment", "shipment list", "shipment create", "shipment device",
	"device", "device list", "device get", "device latest", "device watch",
	"config", "config show", "config path", "config validate",
	"version", "help", "history", "exit", "quit",
}

// Completer provides command and route completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a completer over Commands, the route table and any
// extra names such as command aliases.
func NewCompleter(extra ...string) *Completer {
	cmds := append([]string(nil), Commands...)
	for _, name := range extra {
		if !slices.Contains(cmds, name) {
			cmds = append(cmds, name)
		}
	}
	for _, r := range guard.Routes {
		if !strings.Contains(r.Pattern, ":") {
			cmds = append(cmds, r.Pattern)
		}
	}
	sort.Strings(cmds)
	return &Completer{commands: cmds}
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Known reports whether word names a top-level command.
func (c *Completer) Known(word string) bool {
	for _, cmd := range c.commands {
		if cmd == word {
			return !strings.ContainsAny(cmd, " /")
		}
	}
	return false
}

// Suggest returns top-level commands sharing the longest possible prefix
// with word.
func (c *Completer) Suggest(word string) []string {
	for n := len(word); n > 0; n-- {
		var out []string
		for _, cmd := range c.Complete(word[:n]) {
			if !strings.ContainsAny(cmd, " /") {
				out = append(out, cmd)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
