package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cos-dev/kdev/internal/artifact"
	"github.com/cos-dev/kdev/internal/runner"
)

func TestMakeCommandWithoutToolchain(t *testing.T) {
	fs := afero.NewMemMapFs()
	layout := artifact.NewLayout("/var/lib/kdev", "10323.104.0")

	cmd := MakeCommand(fs, layout, false)

	assert.Equal(t, "make", cmd.Name)
	assert.Equal(t, layout.KernelSrcDir(), cmd.Dir)
	assert.Equal(t, []string{"-j", strconv.Itoa(2 * runtime.NumCPU())}, cmd.Args)
	assert.Empty(t, cmd.Env)
}

func TestMakeCommandWithToolchain(t *testing.T) {
	fs := afero.NewMemMapFs()
	layout := artifact.NewLayout("/var/lib/kdev", "10323.104.0")
	toolchainBin := filepath.Join(layout.ToolchainDir(), "bin")
	require.NoError(t, fs.MkdirAll(toolchainBin, 0o755))

	cmd := MakeCommand(fs, layout, false)

	assert.Contains(t, cmd.Args, "CROSS_COMPILE="+crossPrefix)
	require.Len(t, cmd.Env, 1)
	assert.True(t, strings.HasPrefix(cmd.Env[0], "PATH="+toolchainBin))
}

func TestMakeCommandVerbose(t *testing.T) {
	fs := afero.NewMemMapFs()
	layout := artifact.NewLayout("/var/lib/kdev", "10323.104.0")

	cmd := MakeCommand(fs, layout, true)

	assert.Equal(t, "V=1", cmd.Args[len(cmd.Args)-1])
}

// The printed invocation must match what would execute, so an operator can
// paste the dry-run output into a shell.
func TestPrintOnlyMatchesExecutedCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	layout := artifact.NewLayout("/var/lib/kdev", "10323.104.0")
	toolchainBin := filepath.Join(layout.ToolchainDir(), "bin")
	require.NoError(t, fs.MkdirAll(toolchainBin, 0o755))

	cmd := MakeCommand(fs, layout, true)

	var buf bytes.Buffer
	pr := &runner.PrintRunner{W: &buf}
	require.NoError(t, pr.Run(context.Background(), cmd))

	out := buf.String()
	assert.Contains(t, out, "cd "+layout.KernelSrcDir()+"\n")
	assert.Contains(t, out, cmd.String()+"\n")
	assert.Contains(t, out, "PATH="+toolchainBin+string(os.PathListSeparator))
}
