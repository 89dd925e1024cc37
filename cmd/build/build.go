package build

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/MakeNowJust/heredoc"
	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/cos-dev/kdev/cmd/version"
	"github.com/cos-dev/kdev/internal/artifact"
	"github.com/cos-dev/kdev/internal/cli"
	"github.com/cos-dev/kdev/internal/kconfig"
	"github.com/cos-dev/kdev/internal/runner"
	kdevVersion "github.com/cos-dev/kdev/internal/version"
	"github.com/cos-dev/kdev/pkg/cmd/factory"
)

// crossPrefix is the target triple prefix of the shipped toolchain binaries.
const crossPrefix = "x86_64-cros-linux-gnu-"

type BuildCmd struct {
	BuildID      string `arg:"" optional:"" help:"Build id to compile, e.g. 10323.104.0. Defaults to the running system's build id."`
	KernelConfig string `help:"Kernel config to build with instead of the one shipped with the headers." type:"path"`
	PrintOnly    bool   `help:"Print the build commands without running them."`
	VerboseMake  bool   `help:"Pass V=1 to make."`
}

func (c *BuildCmd) Help() string {
	return heredoc.Doc(`
		Compile the kernel for a build. Missing artifacts are fetched and
		installed first, the kernel config is placed and reconciled with the
		installed trusted key, then make runs inside the kernel tree using
		the packaged cross toolchain when it is installed.

		Examples:
		  # Build the running system's kernel
		  $ kdev build

		  # Show what would run for a specific build
		  $ kdev build 10323.104.0 --print-only

		  # Use a local config
		  $ kdev build --kernel-config ./my.config
	`)
}

func (c *BuildCmd) Run(kongCtx *kong.Context, globals cli.GlobalFlags) error {
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
	layout := artifact.NewLayout(f.Config.InstallDir, build)

	ctx := context.Background()
	pipeline := &artifact.Pipeline{
		Fs:      f.Fs,
		Fetcher: f.Catalog,
		Printer: f.Printer,
		Bucket:  f.Config.Bucket,
	}
	if err := pipeline.Run(ctx, layout, true); err != nil {
		return err
	}

	splicer := &kconfig.Splicer{Fs: f.Fs, Printer: f.Printer}
	if err := splicer.Splice(layout, c.KernelConfig); err != nil {
		return err
	}

	run := f.Runner
	if c.PrintOnly {
		run = &runner.PrintRunner{W: os.Stdout}
	}

	return run.Run(ctx, MakeCommand(f.Fs, layout, c.VerboseMake))
}

// MakeCommand builds the make invocation for the kernel tree. The cross
// toolchain is only wired in when it is actually installed, so a build
// without the optional toolchain artifact falls back to the host compiler.
func MakeCommand(fs afero.Fs, layout artifact.Layout, verbose bool) runner.Command {
	args := []string{"-j", strconv.Itoa(2 * runtime.NumCPU())}

	cmd := runner.Command{
		Name: "make",
		Dir:  layout.KernelSrcDir(),
	}

	toolchainBin := filepath.Join(layout.ToolchainDir(), "bin")
	if ok, _ := afero.DirExists(fs, toolchainBin); ok {
		args = append(args, "CROSS_COMPILE="+crossPrefix)
		cmd.Env = append(cmd.Env, "PATH="+toolchainBin+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
	if verbose {
		args = append(args, "V=1")
	}

	cmd.Args = args
	return cmd
}
