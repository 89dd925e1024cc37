package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/cos-dev/kdev/cmd/build"
	"github.com/cos-dev/kdev/cmd/fetch"
	"github.com/cos-dev/kdev/cmd/list"
	"github.com/cos-dev/kdev/cmd/remove"
	"github.com/cos-dev/kdev/cmd/version"
	"github.com/cos-dev/kdev/internal/cli"
	kdevErrors "github.com/cos-dev/kdev/internal/errors"
)

// Kong CLI structure, with the global flags shared by every subcommand
type CLI struct {
	InstallDir string `help:"Root directory artifacts are installed under" env:"KDEV_INSTALL_DIR"`
	Quiet      bool   `help:"Suppress progress output" short:"q"`
	Debug      bool   `help:"Enable debug output, including external commands"`
	NoColor    bool   `help:"Disable colored output" name:"no-color"`

	List    list.ListCmd       `cmd:"" help:"List builds with published kernel artifacts" aliases:"ls"`
	Fetch   fetch.FetchCmd     `cmd:"" help:"Fetch, verify and install a build's kernel artifacts"`
	Build   build.BuildCmd     `cmd:"" help:"Compile the kernel for a build"`
	Remove  remove.RemoveCmd   `cmd:"" help:"Remove installed artifacts" aliases:"rm"`
	Version version.VersionCmd `cmd:"" help:"Print the version of the CLI being used"`
}

func handleError(err error, verbose bool) {
	kdevErrors.NewHandler().WithVerbose(verbose).Handle(err)
}

func newKongParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(
		cli,
		kong.Name("kdev"),
		kong.Description("Work with COS kernel build artifacts from the command line."),
		kong.UsageOnError(),
		kong.Vars{
			// Empty default allows commands to fall back to text output
			"output_default_format": "",
		},
	)
}

func main() {
	os.Exit(run())
}

func run() int {
	// Handle no-args case by showing help instead of error
	// This addresses the Kong limitation described in https://github.com/alecthomas/kong/issues/33
	if len(os.Args) <= 1 {
		cliInstance := &CLI{}
		parser, err := newKongParser(cliInstance)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		_, _ = parser.Parse([]string{"--help"})
		return 0
	}

	cliInstance := &CLI{}

	parser, err := newKongParser(cliInstance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	globals := cli.Globals{
		InstallDir: cliInstance.InstallDir,
		Quiet:      cliInstance.Quiet,
		Debug:      cliInstance.Debug,
		NoColor:    cliInstance.NoColor,
	}

	ctx.BindTo(cli.GlobalFlags(globals), (*cli.GlobalFlags)(nil))

	if err := ctx.Run(cliInstance); err != nil {
		handleError(err, cliInstance.Debug)
		return 1
	}
	return 0
}
