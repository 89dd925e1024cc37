// Package artifact implements the fetch/verify/install pipeline for COS
// kernel build artifacts.
//
// Every artifact moves through a small filesystem-backed state machine
// (absent, fetched, verified, installed). The state is not stored anywhere;
// it is probed from the raw artifact file and its sentinel files on every
// run, which is what makes interrupted runs resumable.
package artifact

import "path/filepath"

// Archive formats an artifact can be packaged in.
type Format int

const (
	// FormatNone marks a plain file that is copied, not extracted.
	FormatNone Format = iota
	// FormatTarGz is a gzip-compressed tarball (.tgz / .tar.gz).
	FormatTarGz
	// FormatTarXz is an xz-compressed tarball (.tar.xz).
	FormatTarXz
)

// Descriptor describes one fetchable artifact of a build.
type Descriptor struct {
	// Name is the logical name used in logs and list output.
	Name string

	// RemoteName is the object name under gs://<bucket>/<build-id>/.
	RemoteName string

	// Format selects how the install stage unpacks the artifact.
	Format Format

	// Optional artifacts may be missing for a build; a failed fetch is
	// reported as a warning instead of aborting the run.
	Optional bool
}

// Registry is the fixed set of artifacts, in processing and display order.
// It is defined once and never mutated.
var Registry = []Descriptor{
	{Name: "kernel-headers", RemoteName: "kernel-headers.tgz", Format: FormatTarGz},
	{Name: "kernel-src", RemoteName: "kernel-src.tgz", Format: FormatTarGz},
	{Name: "trusted-key", RemoteName: "trusted_key.pem", Format: FormatNone, Optional: true},
	{Name: "toolchain", RemoteName: "toolchain.tar.xz", Format: FormatTarXz, Optional: true},
}

// Layout holds every path derived from (install root, build id). It is
// computed once per run and treated as read-only afterwards.
type Layout struct {
	Root    string
	BuildID string
}

// NewLayout derives the per-build directory layout.
func NewLayout(root, buildID string) Layout {
	return Layout{Root: root, BuildID: buildID}
}

// FetchedDir is where raw artifacts and their sentinel files live.
func (l Layout) FetchedDir() string {
	return filepath.Join(l.Root, "fetched-files", l.BuildID)
}

// HeadersDir is where the kernel headers archive is extracted.
func (l Layout) HeadersDir() string {
	return filepath.Join(l.Root, "cos-kernel-headers", l.BuildID)
}

// KernelSrcDir is where the kernel source archive is extracted.
func (l Layout) KernelSrcDir() string {
	return filepath.Join(l.Root, "cos-kernel-src", l.BuildID)
}

// KernelSymlink is the stable path pointing at the current source tree.
func (l Layout) KernelSymlink() string {
	return filepath.Join(l.Root, "cos-kernel-src", "kernel")
}

// ToolchainDir is where the toolchain archive is extracted.
func (l Layout) ToolchainDir() string {
	return filepath.Join(l.Root, "cos-toolchain", l.BuildID)
}

// CertsDir is the kernel source tree's certificate directory, the install
// target for the trusted-key artifact.
func (l Layout) CertsDir() string {
	return filepath.Join(l.KernelSrcDir(), "certs")
}

// FetchedPath is the local path of a descriptor's raw artifact file.
func (l Layout) FetchedPath(d Descriptor) string {
	return filepath.Join(l.FetchedDir(), d.RemoteName)
}

// InstallDir is the directory a descriptor is unpacked or copied into.
func (l Layout) InstallDir(d Descriptor) string {
	switch d.Name {
	case "kernel-headers":
		return l.HeadersDir()
	case "kernel-src":
		return l.KernelSrcDir()
	case "trusted-key":
		return l.CertsDir()
	case "toolchain":
		return l.ToolchainDir()
	}
	return ""
}

// CategoryRoots returns the top-level directories spanning every build,
// used by remove --all.
func CategoryRoots(root string) []string {
	return []string{
		filepath.Join(root, "fetched-files"),
		filepath.Join(root, "cos-kernel-headers"),
		filepath.Join(root, "cos-kernel-src"),
		filepath.Join(root, "cos-toolchain"),
	}
}
