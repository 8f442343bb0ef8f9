package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/shiptrack-go/internal/cli/output"
	"github.com/yndnr/shiptrack-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			rt, err := mustRuntime(c)
			if err != nil {
				return err
			}
			info := buildinfo.Get()
			return rt.render(c, versionTable(info), info)
		},
	}
}

type versionTable buildinfo.Info

func (v versionTable) Table(bool) *output.Table {
	t := output.NewTable("FIELD", "VALUE")
	t.AddRow("Version", v.Version)
	t.AddRow("Commit", v.Commit)
	t.AddRow("Built", v.BuildTime)
	t.AddRow("Go", v.GoVersion)
	t.AddRow("Platform", v.Platform)
	return t
}
