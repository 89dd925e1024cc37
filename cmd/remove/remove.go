package remove

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/alecthomas/kong"

	"github.com/cos-dev/kdev/cmd/version"
	"github.com/cos-dev/kdev/internal/artifact"
	"github.com/cos-dev/kdev/internal/catalog"
	"github.com/cos-dev/kdev/internal/cli"
	kdevVersion "github.com/cos-dev/kdev/internal/version"
	"github.com/cos-dev/kdev/pkg/cmd/factory"
)

type RemoveCmd struct {
	BuildID string `arg:"" optional:"" help:"Build id to remove. Defaults to the running system's build id."`
	All     bool   `help:"Remove every installed build and the cached catalog listings."`
}

func (c *RemoveCmd) Help() string {
	return heredoc.Doc(`
		Remove the installed artifacts of one build, or everything under the
		install root with --all. Cached catalog listings are dropped either
		way, and removing files that were never installed is not an error.

		Examples:
		  # Remove one build
		  $ kdev remove 10323.104.0

		  # Start over completely
		  $ kdev remove --all
	`)
}

func (c *RemoveCmd) Run(kongCtx *kong.Context, globals cli.GlobalFlags) error {
	f, err := factory.New(version.Version,
		factory.WithInstallDir(globals.InstallDirectory()),
		factory.WithQuiet(globals.IsQuiet()),
		factory.WithDebug(globals.EnableDebug()),
		factory.WithNoColor(globals.DisableColor()),
	)
	if err != nil {
		return err
	}

	build := c.BuildID
	if !c.All {
		build, err = kdevVersion.Resolve(f.Fs, c.BuildID, f.Config.ReleaseFile)
		if err != nil {
			return err
		}
	}

	layout := artifact.NewLayout(f.Config.InstallDir, build)
	return artifact.Remove(f.Fs, layout, catalog.CachePaths(f.Config.CacheDir()), c.All)
}
