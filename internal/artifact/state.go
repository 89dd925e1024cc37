package artifact

import (
	"os"

	"github.com/spf13/afero"
)

// State is the pipeline stage an artifact has reached, derived entirely from
// files on disk.
type State int

const (
	// Absent means the raw artifact file is missing or empty.
	Absent State = iota
	// Fetched means the raw file exists but has not been verified.
	Fetched
	// Verified means the checksum sentinel is present.
	Verified
	// Installed means the install sentinel is present.
	Installed
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Fetched:
		return "fetched"
	case Verified:
		return "verified"
	case Installed:
		return "installed"
	}
	return "unknown"
}

const (
	sidecarSuffix   = ".md5"
	verifiedSuffix  = ".verified"
	installedSuffix = ".installed"
)

// SidecarPath returns the checksum sidecar path for an artifact file.
func SidecarPath(path string) string { return path + sidecarSuffix }

// VerifiedPath returns the verified-sentinel path for an artifact file.
func VerifiedPath(path string) string { return path + verifiedSuffix }

// InstalledPath returns the installed-sentinel path for an artifact file.
func InstalledPath(path string) string { return path + installedSuffix }

// Probe determines the current state of the artifact at path, repairing the
// invariant that sentinels never outlive the raw file: when the file is
// missing or empty, stale .verified/.installed sentinels are deleted so the
// next stages re-run instead of silently skipping.
func Probe(fs afero.Fs, path string) (State, error) {
	info, err := fs.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return Absent, err
	}
	if err != nil || info.Size() == 0 {
		if rmErr := clearSentinels(fs, path); rmErr != nil {
			return Absent, rmErr
		}
		return Absent, nil
	}

	if ok, _ := afero.Exists(fs, InstalledPath(path)); ok {
		return Installed, nil
	}
	if ok, _ := afero.Exists(fs, VerifiedPath(path)); ok {
		return Verified, nil
	}
	return Fetched, nil
}

// MarkVerified records that the artifact's checksum matched.
func MarkVerified(fs afero.Fs, path string) error {
	return touch(fs, VerifiedPath(path))
}

// MarkInstalled records that the artifact was extracted or copied.
func MarkInstalled(fs afero.Fs, path string) error {
	return touch(fs, InstalledPath(path))
}

// clearSentinels removes the verified and installed markers for path.
// A re-fetched artifact must be verified and installed again.
func clearSentinels(fs afero.Fs, path string) error {
	for _, p := range []string{VerifiedPath(path), InstalledPath(path)} {
		if err := fs.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// touch creates an empty sentinel file. Only its presence matters.
func touch(fs afero.Fs, path string) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	return f.Close()
}
