package fetch

import (
	"context"

	"github.com/MakeNowJust/heredoc"
	"github.com/alecthomas/kong"

	"github.com/cos-dev/kdev/cmd/version"
	"github.com/cos-dev/kdev/internal/artifact"
	"github.com/cos-dev/kdev/internal/cli"
	kdevVersion "github.com/cos-dev/kdev/internal/version"
	"github.com/cos-dev/kdev/pkg/cmd/factory"
)

type FetchCmd struct {
	BuildID   string `arg:"" optional:"" help:"Build id to fetch, e.g. 10323.104.0. Defaults to the running system's build id."`
	NoExtract bool   `help:"Download and verify only, without installing."`
}

func (c *FetchCmd) Help() string {
	return heredoc.Doc(`
		Fetch the kernel development artifacts for a build, verify their
		checksums and install them under the install root. Fetching is
		idempotent: artifacts already installed are left alone, and an
		interrupted run picks up where it stopped.

		Examples:
		  # Fetch artifacts for the running system
		  $ kdev fetch

		  # Fetch a specific build without unpacking
		  $ kdev fetch 10323.104.0 --no-extract
	`)
}

func (c *FetchCmd) Run(kongCtx *kong.Context, globals cli.GlobalFlags) error {
	f, err := factory.New(version.Version,
		factory.WithInstallDir(globals.InstallDirectory()),
		factory.WithQuiet(globals.IsQuiet()),
		factory.WithDebug(globals.EnableDebug()),
		factory.WithNoColor(globals.DisableColor()),
	)
	if err != nil {
		return err
	}

	build, err := kdevVersion.Resolve(f.Fs, c.BuildID, f.Config.ReleaseFile)
	if err != nil {
		return err
	}

	pipeline := &artifact.Pipeline{
		Fs:      f.Fs,
		Fetcher: f.Catalog,
		Printer: f.Printer,
		Bucket:  f.Config.Bucket,
	}
	layout := artifact.NewLayout(f.Config.InstallDir, build)

	return pipeline.Run(context.Background(), layout, !c.NoExtract)
}
