// Package runner abstracts external process invocation so that dry-run mode
// can print the exact commands that would otherwise execute.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes one external process invocation.
type Command struct {
	// Name is the program to run, Args its arguments (argv[1:]).
	Name string
	Args []string

	// Dir is the working directory; empty means inherit.
	Dir string

	// Env holds extra KEY=VALUE entries appended to the parent environment.
	Env []string
}

// String renders the invocation as a single shell-style line. PrintRunner
// emits exactly this, so the dry-run output is byte-identical to what
// ExecRunner would run.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	parts = append(parts, c.Args...)
	return strings.Join(parts, " ")
}

// Runner executes commands.
type Runner interface {
	// Run executes cmd, streaming output to the runner's writers.
	Run(ctx context.Context, cmd Command) error

	// Output executes cmd and returns its stdout.
	Output(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands as real child processes.
type ExecRunner struct {
	// Stdout and Stderr receive the child's output. Nil means os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), cmd.Env...)
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return nil
}

func (r *ExecRunner) Output(ctx context.Context, cmd Command) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), cmd.Env...)
	c.Stderr = r.Stderr
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	out, err := c.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return out, nil
}

// PrintRunner writes each invocation instead of executing it. Env and Dir are
// shown as annotations so an operator can reproduce the command by hand.
type PrintRunner struct {
	W io.Writer
}

func (r *PrintRunner) Run(_ context.Context, cmd Command) error {
	for _, kv := range cmd.Env {
		fmt.Fprintf(r.W, "%s \\\n", kv)
	}
	if cmd.Dir != "" {
		fmt.Fprintf(r.W, "cd %s\n", cmd.Dir)
	}
	fmt.Fprintln(r.W, cmd.String())
	return nil
}

func (r *PrintRunner) Output(_ context.Context, cmd Command) ([]byte, error) {
	fmt.Fprintln(r.W, cmd.String())
	return nil, nil
}
