// Package kconfig materializes a kernel build configuration into the
// extracted source tree and reconciles it with the artifacts that were
// actually fetched.
package kconfig

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/cos-dev/kdev/internal/artifact"
	kdevErrors "github.com/cos-dev/kdev/internal/errors"
	kdevIO "github.com/cos-dev/kdev/internal/io"
)

// TrustedKeysOption is the only config key the splicer rewrites.
const TrustedKeysOption = "CONFIG_SYSTEM_TRUSTED_KEYS"

var trustedKeysLine = regexp.MustCompile(`(?m)^` + TrustedKeysOption + `=".*"$`)

// Splicer places a .config into the kernel source directory and fixes up
// the trusted-keys option. It runs after the install stage, once kernel
// headers and kernel source are on disk.
type Splicer struct {
	Fs      afero.Fs
	Printer *kdevIO.Printer
}

// Splice materializes the kernel config. explicitPath, when non-empty, is an
// operator-supplied config file; a gzip-compressed proc-style config is
// decompressed transparently. Without an explicit path an existing .config
// is kept, and failing that the config shipped in the kernel-headers tree
// is copied over.
func (s *Splicer) Splice(layout artifact.Layout, explicitPath string) error {
	dest := filepath.Join(layout.KernelSrcDir(), ".config")

	switch {
	case explicitPath != "":
		if err := s.materialize(explicitPath, dest); err != nil {
			return err
		}
	default:
		exists, err := afero.Exists(s.Fs, dest)
		if err != nil {
			return err
		}
		if !exists {
			headerConfig, err := s.findHeaderConfig(layout)
			if err != nil {
				return err
			}
			if err := s.copy(headerConfig, dest); err != nil {
				return err
			}
			s.Printer.Infof("using kernel config from %s", headerConfig)
		}
	}

	return s.reconcileTrustedKeys(layout, dest)
}

// materialize copies an operator-supplied config, decompressing it first
// when it carries the gzip magic (configs exported from /proc/config.gz).
func (s *Splicer) materialize(src, dest string) error {
	content, err := afero.ReadFile(s.Fs, src)
	if err != nil {
		return kdevErrors.NewKernelConfigError(err, "reading "+src)
	}

	if bytes.HasPrefix(content, []byte{0x1f, 0x8b}) {
		gz, err := gzip.NewReader(bytes.NewReader(content))
		if err != nil {
			return kdevErrors.NewKernelConfigError(err, "decompressing "+src)
		}
		content, err = io.ReadAll(gz)
		if err != nil {
			return kdevErrors.NewKernelConfigError(err, "decompressing "+src)
		}
	}

	return afero.WriteFile(s.Fs, dest, content, 0o644)
}

// findHeaderConfig locates the .config shipped inside the extracted
// kernel-headers tree.
func (s *Splicer) findHeaderConfig(layout artifact.Layout) (string, error) {
	var found string
	err := afero.Walk(s.Fs, layout.HeadersDir(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if found == "" && !info.IsDir() && info.Name() == ".config" {
			found = path
		}
		return nil
	})
	if err != nil {
		return "", kdevErrors.NewKernelConfigError(err, "scanning "+layout.HeadersDir())
	}
	if found == "" {
		return "", kdevErrors.NewKernelConfigError(nil,
			"kernel headers for "+layout.BuildID+" ship no .config",
			"Supply one with --kernel-config")
	}
	return found, nil
}

// reconcileTrustedKeys aligns the trusted-keys option with reality: when the
// config references the trusted-key artifact but the artifact was never
// fetched, the option is blanked so the build can proceed unsigned. The
// prior config is kept as .config.bak and the change is reported.
func (s *Splicer) reconcileTrustedKeys(layout artifact.Layout, configPath string) error {
	content, err := afero.ReadFile(s.Fs, configPath)
	if err != nil {
		return err
	}

	line := trustedKeysLine.Find(content)
	if line == nil || string(line) == TrustedKeysOption+`=""` {
		return nil
	}

	key, ok := artifact.DescriptorByName("trusted-key")
	if !ok {
		return kdevErrors.NewInternalError(nil, "trusted-key missing from registry")
	}

	if artifact.IsFetched(s.Fs, layout, key) {
		return s.ensureCertInstalled(layout, key)
	}

	// Degraded fallback: referenced key was never fetched.
	replaced := trustedKeysLine.ReplaceAll(content, []byte(TrustedKeysOption+`=""`))
	if err := afero.WriteFile(s.Fs, configPath+".bak", content, 0o644); err != nil {
		return err
	}
	if err := afero.WriteFile(s.Fs, configPath, replaced, 0o644); err != nil {
		return err
	}

	s.Printer.Warningf("trusted key not available, disabling %s", TrustedKeysOption)
	s.Printer.Infof("%s updated (backup in %s.bak):", configPath, configPath)
	s.Printer.Infof("-%s", strings.TrimSpace(string(line)))
	s.Printer.Infof("+%s=\"\"", TrustedKeysOption)
	return nil
}

// ensureCertInstalled copies the fetched trusted key into the source tree's
// certs directory. Skips when already present.
func (s *Splicer) ensureCertInstalled(layout artifact.Layout, key artifact.Descriptor) error {
	dest := filepath.Join(layout.CertsDir(), key.RemoteName)
	exists, err := afero.Exists(s.Fs, dest)
	if err != nil || exists {
		return err
	}
	if err := s.Fs.MkdirAll(layout.CertsDir(), 0o755); err != nil {
		return err
	}
	return s.copy(layout.FetchedPath(key), dest)
}

func (s *Splicer) copy(src, dest string) error {
	content, err := afero.ReadFile(s.Fs, src)
	if err != nil {
		return err
	}
	if err := s.Fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(s.Fs, dest, content, 0o644)
}
