package io

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	warnColor  = color.New(color.FgYellow, color.Bold)
	debugColor = color.New(color.Faint)
)

// Printer writes user-facing progress and warning lines. Soft pipeline
// conditions (optional artifact missing, no checksum sidecar) are reported
// here; fatal conditions travel as errors instead.
type Printer struct {
	// Out and Err default to os.Stdout and os.Stderr.
	Out io.Writer
	Err io.Writer

	// Quiet suppresses Infof output.
	Quiet bool
	// Debug enables Debugf output.
	Debug bool
	// NoColor disables ANSI styling regardless of TTY state.
	NoColor bool
}

// NewPrinter returns a Printer bound to the process's standard streams.
func NewPrinter(quiet, debug, noColor bool) *Printer {
	return &Printer{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Quiet:   quiet,
		Debug:   debug,
		NoColor: noColor || !colorWanted(),
	}
}

// Infof reports normal progress. Suppressed in quiet mode.
func (p *Printer) Infof(format string, args ...interface{}) {
	if p.Quiet {
		return
	}
	fmt.Fprintf(p.out(), format+"\n", args...)
}

// Warningf reports a soft, non-fatal condition.
func (p *Printer) Warningf(format string, args ...interface{}) {
	prefix := "WARNING:"
	if !p.NoColor {
		prefix = warnColor.Sprint(prefix)
	}
	fmt.Fprintf(p.err(), "%s "+format+"\n", append([]interface{}{prefix}, args...)...)
}

// Debugf reports diagnostic detail, such as each external command run.
func (p *Printer) Debugf(format string, args ...interface{}) {
	if !p.Debug {
		return
	}
	line := fmt.Sprintf(format, args...)
	if !p.NoColor {
		line = debugColor.Sprint(line)
	}
	fmt.Fprintln(p.err(), line)
}

func (p *Printer) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}

func (p *Printer) err() io.Writer {
	if p.Err != nil {
		return p.Err
	}
	return os.Stderr
}

// colorWanted honors the NO_COLOR convention and TTY state.
// See https://no-color.org
func colorWanted() bool {
	if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return IsTerminal()
}
