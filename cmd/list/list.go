package list

import (
	"context"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/alecthomas/kong"

	"github.com/cos-dev/kdev/cmd/version"
	"github.com/cos-dev/kdev/internal/artifact"
	"github.com/cos-dev/kdev/internal/catalog"
	"github.com/cos-dev/kdev/internal/cli"
	"github.com/cos-dev/kdev/pkg/cmd/factory"
	"github.com/cos-dev/kdev/pkg/output"
)

// headerRepeat keeps column headers visible on listings that scroll
// past a screenful.
const headerRepeat = 25

type ListCmd struct {
	BuildID string `arg:"" optional:"" help:"Show only this build id."`
	All     bool   `help:"Include deprecated and obsolete builds."`
	output.OutputFlags
}

func (c *ListCmd) Help() string {
	return heredoc.Doc(`
		List the builds with published kernel artifacts, joined with the
		lifecycle status of their released images. Deprecated and obsolete
		builds are hidden unless --all is given. A build id argument shows
		exactly that build, whatever its status.

		Examples:
		  # List active builds
		  $ kdev list

		  # Include deprecated and obsolete builds, as JSON
		  $ kdev list --all -o json

		  # Inspect one build
		  $ kdev list 10323.104.0
	`)
}

func (c *ListCmd) Run(kongCtx *kong.Context, globals cli.GlobalFlags) error {
	f, err := factory.New(version.Version,
		factory.WithInstallDir(globals.InstallDirectory()),
		factory.WithQuiet(globals.IsQuiet()),
		factory.WithDebug(globals.EnableDebug()),
		factory.WithNoColor(globals.DisableColor()),
	)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(c.Output)
	if err != nil {
		return err
	}

	lister := &catalog.Lister{
		Client:  f.Catalog,
		Project: f.Config.Project,
		Bucket:  f.Config.Bucket,
	}

	rows, err := lister.Rows(context.Background(), c.BuildID, c.All)
	if err != nil {
		return err
	}

	view := output.Viewable[[]catalog.Row]{
		Data: rows,
		Render: func(rows []catalog.Row) string {
			return Render(rows, c.All)
		},
	}
	return output.Write(os.Stdout, view, format)
}

// Render produces the text table. The status column only appears with
// includeAll since every row is active otherwise.
func Render(rows []catalog.Row, includeAll bool) string {
	headers := []string{"build", "milestone", "family"}
	if includeAll {
		headers = append(headers, "status")
	}
	for _, d := range artifact.Registry {
		headers = append(headers, d.Name)
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cell := []string{
			row.BuildID,
			output.ValueOrDash(row.Milestone),
			output.ValueOrDash(row.Family),
		}
		if includeAll {
			cell = append(cell, output.ValueOrDash(row.Status.Abbrev()))
		}
		for _, present := range row.Artifacts {
			if present {
				cell = append(cell, "+++")
			} else {
				cell = append(cell, "---")
			}
		}
		cells = append(cells, cell)
	}

	return output.Table(headers, cells, headerRepeat)
}
