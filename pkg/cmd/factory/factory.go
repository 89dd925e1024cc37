// Package factory wires together the collaborators a command needs for one
// run: configuration, filesystem, catalog client, process runner and the
// user-facing printer.
package factory

import (
	"context"

	"github.com/spf13/afero"

	"github.com/cos-dev/kdev/internal/catalog"
	"github.com/cos-dev/kdev/internal/config"
	kdevIO "github.com/cos-dev/kdev/internal/io"
	"github.com/cos-dev/kdev/internal/runner"
)

type Factory struct {
	Config  *config.Config
	Fs      afero.Fs
	Catalog catalog.Client
	Runner  runner.Runner
	Printer *kdevIO.Printer
	Version string
}

// Option adjusts the factory during construction.
type Option func(*options)

type options struct {
	installDir string
	quiet      bool
	debug      bool
	noColor    bool
}

// WithInstallDir overrides the configured install root.
func WithInstallDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.installDir = dir
		}
	}
}

// WithQuiet suppresses progress output.
func WithQuiet(quiet bool) Option {
	return func(o *options) { o.quiet = quiet }
}

// WithDebug enables diagnostic output, including every external command.
func WithDebug(debug bool) Option {
	return func(o *options) { o.debug = debug }
}

// WithNoColor disables ANSI styling.
func WithNoColor(noColor bool) Option {
	return func(o *options) { o.noColor = noColor }
}

// New builds a factory backed by the real filesystem and the gcloud/gsutil
// catalog, with listings cached between runs.
func New(version string, opts ...Option) (*Factory, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	fs := afero.NewOsFs()
	conf := config.Load(fs)
	if o.installDir != "" {
		conf.InstallDir = o.installDir
	}

	printer := kdevIO.NewPrinter(o.quiet, o.debug, o.noColor)
	run := &runner.ExecRunner{}

	return &Factory{
		Config: conf,
		Fs:     fs,
		Catalog: &catalog.CachingClient{
			Client: &catalog.GSClient{Fs: fs, Runner: &loggingRunner{Runner: run, Printer: printer}},
			Fs:     fs,
			Dir:    conf.CacheDir(),
		},
		Runner:  &loggingRunner{Runner: run, Printer: printer},
		Printer: printer,
		Version: version,
	}, nil
}

// loggingRunner reports every external invocation in debug mode.
type loggingRunner struct {
	runner.Runner
	Printer *kdevIO.Printer
}

func (r *loggingRunner) Run(ctx context.Context, cmd runner.Command) error {
	r.Printer.Debugf("exec: %s", cmd.String())
	return r.Runner.Run(ctx, cmd)
}

func (r *loggingRunner) Output(ctx context.Context, cmd runner.Command) ([]byte, error) {
	r.Printer.Debugf("exec: %s", cmd.String())
	return r.Runner.Output(ctx, cmd)
}
