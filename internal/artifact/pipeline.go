package artifact

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	kdevErrors "github.com/cos-dev/kdev/internal/errors"
	kdevIO "github.com/cos-dev/kdev/internal/io"
)

// Fetcher transfers one remote object to a local path. An empty result file
// counts as a failed transfer.
type Fetcher interface {
	Fetch(ctx context.Context, remotePath, localPath string) error
}

// Pipeline drives every artifact of one build through fetch, verify and
// install. All state lives on the filesystem; re-running a completed
// pipeline performs no network or extraction work.
type Pipeline struct {
	Fs      afero.Fs
	Fetcher Fetcher
	Printer *kdevIO.Printer

	// Bucket is the remote root the artifacts are published under,
	// e.g. "gs://cos-tools".
	Bucket string
}

// Run executes the pipeline stages over the whole registry, in registry
// order. The install stage only runs when extract is true.
func (p *Pipeline) Run(ctx context.Context, layout Layout, extract bool) error {
	if err := p.fetchStage(ctx, layout); err != nil {
		return err
	}
	if err := p.verifyStage(layout); err != nil {
		return err
	}
	if !extract {
		return nil
	}
	return p.installStage(layout)
}

// RemotePath returns the full remote object path of a descriptor for the
// layout's build.
func (p *Pipeline) RemotePath(layout Layout, d Descriptor) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(p.Bucket, "/"), layout.BuildID, d.RemoteName)
}

// fetchStage downloads every artifact that is not already present, plus its
// checksum sidecar. Optional artifacts that fail to transfer are reported
// and skipped; mandatory ones abort the run.
func (p *Pipeline) fetchStage(ctx context.Context, layout Layout) error {
	if err := p.Fs.MkdirAll(layout.FetchedDir(), 0o755); err != nil {
		return err
	}

	for _, d := range Registry {
		local := layout.FetchedPath(d)

		state, err := Probe(p.Fs, local)
		if err != nil {
			return err
		}
		if state == Absent {
			remote := p.RemotePath(layout, d)
			p.Printer.Infof("fetching %s", remote)
			if err := p.Fetcher.Fetch(ctx, remote, local); err != nil {
				// A short transfer can leave a zero-length file behind.
				p.removeIfPresent(local)
				if d.Optional {
					p.Printer.Warningf("%s not available for build %s, skipping", d.Name, layout.BuildID)
					continue
				}
				return kdevErrors.NewArtifactFetchError(err, "fetching "+remote)
			}
			// The artifact changed on disk, so any previous verification
			// or installation no longer applies.
			if err := clearSentinels(p.Fs, local); err != nil {
				return err
			}
		}

		p.fetchSidecar(ctx, layout, d)
	}
	return nil
}

// fetchSidecar retrieves the .md5 sidecar for an artifact. Older builds were
// published without sidecars, so failure is never fatal.
func (p *Pipeline) fetchSidecar(ctx context.Context, layout Layout, d Descriptor) {
	local := SidecarPath(layout.FetchedPath(d))
	if ok, _ := afero.Exists(p.Fs, local); ok {
		return
	}

	remote := p.RemotePath(layout, d) + sidecarSuffix
	if err := p.Fetcher.Fetch(ctx, remote, local); err != nil {
		p.removeIfPresent(local)
		p.Printer.Warningf("no checksum file for %s", d.Name)
	}
}

// verifyStage compares each fetched artifact against its checksum sidecar.
// A mismatch is always fatal; an installed artifact must never be corrupt.
func (p *Pipeline) verifyStage(layout Layout) error {
	for _, d := range Registry {
		local := layout.FetchedPath(d)

		state, err := Probe(p.Fs, local)
		if err != nil {
			return err
		}
		if state == Absent {
			continue
		}
		// Only the .verified sentinel skips verification. An installed
		// artifact that never had a sidecar must still be checked once
		// one appears.
		if ok, _ := afero.Exists(p.Fs, VerifiedPath(local)); ok {
			continue
		}

		sidecar, err := readSidecar(p.Fs, SidecarPath(local))
		if err != nil {
			if !os.IsNotExist(err) {
				return err
			}
			p.Printer.Warningf("cannot verify %s: no checksum file", d.Name)
			continue
		}

		sum, err := fileChecksum(p.Fs, local)
		if err != nil {
			return err
		}
		if !strings.EqualFold(sum, sidecar) {
			return kdevErrors.NewChecksumMismatchError(nil,
				fmt.Sprintf("%s: got %s, want %s", d.RemoteName, sum, sidecar),
				"Remove the fetched file and re-run to download it again")
		}
		if err := MarkVerified(p.Fs, local); err != nil {
			return err
		}
		p.Printer.Infof("verified %s", d.Name)
	}
	return nil
}

// installStage unpacks verified artifacts into their install directories and
// repoints the kernel symlink after the source tree is extracted.
func (p *Pipeline) installStage(layout Layout) error {
	for _, d := range Registry {
		local := layout.FetchedPath(d)

		state, err := Probe(p.Fs, local)
		if err != nil {
			return err
		}
		if state == Absent {
			continue
		}
		if state == Installed {
			continue
		}

		dest := layout.InstallDir(d)
		if d.Format == FormatNone {
			if err := p.Fs.MkdirAll(dest, 0o755); err != nil {
				return err
			}
			if err := copyFile(p.Fs, local, filepath.Join(dest, d.RemoteName), 0o644); err != nil {
				return err
			}
		} else {
			p.Printer.Infof("extracting %s into %s", d.Name, dest)
			if err := extractArchive(p.Fs, local, dest, d.Format); err != nil {
				return err
			}
		}

		if d.Name == "kernel-src" {
			if err := p.repointKernelSymlink(layout); err != nil {
				return err
			}
		}

		if err := MarkInstalled(p.Fs, local); err != nil {
			return err
		}
	}
	return nil
}

// repointKernelSymlink replaces the stable "kernel" symlink with one aimed
// at the freshly extracted source tree.
func (p *Pipeline) repointKernelSymlink(layout Layout) error {
	linker, ok := p.Fs.(afero.Linker)
	if !ok {
		p.Printer.Debugf("filesystem does not support symlinks, skipping kernel link")
		return nil
	}
	link := layout.KernelSymlink()
	if err := p.Fs.Remove(link); err != nil && !os.IsNotExist(err) {
		return err
	}
	return linker.SymlinkIfPossible(layout.KernelSrcDir(), link)
}

// IsFetched reports whether a descriptor's raw artifact is present locally.
func IsFetched(fs afero.Fs, layout Layout, d Descriptor) bool {
	state, err := Probe(fs, layout.FetchedPath(d))
	return err == nil && state != Absent
}

// DescriptorByName looks a descriptor up in the registry.
func DescriptorByName(name string) (Descriptor, bool) {
	for _, d := range Registry {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

func (p *Pipeline) removeIfPresent(path string) {
	if err := p.Fs.Remove(path); err != nil && !os.IsNotExist(err) {
		p.Printer.Warningf("cannot remove %s: %v", path, err)
	}
}

// readSidecar parses the single hex checksum out of a .md5 sidecar. Sidecars
// produced by md5sum carry "checksum  filename"; only the first field counts.
func readSidecar(fs afero.Fs, path string) (string, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", err
	}
	fields := strings.Fields(string(content))
	if len(fields) == 0 {
		return "", fmt.Errorf("checksum file %s is empty", path)
	}
	return fields[0], nil
}

// fileChecksum computes the md5 of a file's contents as a hex string.
func fileChecksum(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := md5.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
