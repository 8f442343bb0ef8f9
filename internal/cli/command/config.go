package command

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shiptrack-go/internal/cli/config"
	"github.com/yndnr/shiptrack-go/internal/cli/output"
	"github.com/yndnr/shiptrack-go/internal/cli/repl"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"cfg"},
		Usage:   "Inspect CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Show where configuration and state are stored",
				Action: configPath,
			},
			{
				Name:   "validate",
				Usage:  "Validate the effective configuration",
				Action: configValidate,
			},
		},
	}
}

// settingsTable is a sorted KEY VALUE listing.
type settingsTable map[string]any

func (s settingsTable) Table(bool) *output.Table {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := output.NewTable("KEY", "VALUE")
	for _, k := range keys {
		v := fmt.Sprint(s[k])
		if v == "" {
			v = "-"
		}
		t.AddRow(k, v)
	}
	return t
}

func configShow(c *cli.Context) error {
	rt, err := mustRuntime(c)
	if err != nil {
		return err
	}
	settings := rt.Config.Flatten()
	return rt.render(c, settingsTable(settings), settings)
}

func configPath(c *cli.Context) error {
	rt, err := mustRuntime(c)
	if err != nil {
		return err
	}
	file := c.String("config")
	if file == "" {
		file = config.DefaultConfigPath()
	}
	paths := map[string]any{
		"config":  file,
		"session": rt.Config.SessionPath(),
		"history": repl.DefaultHistoryPath(),
	}
	return rt.render(c, settingsTable(paths), paths)
}

func configValidate(c *cli.Context) error {
	rt, err := mustRuntime(c)
	if err != nil {
		return err
	}
	if err := rt.Config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	rt.printf(c, "✓ Configuration is valid\n")
	return nil
}
