package artifact

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
)

// extractArchive unpacks the tarball at src into destDir. The compression
// wrapper is chosen by the descriptor's format.
func extractArchive(fs afero.Fs, src, destDir string, format Format) error {
	f, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader io.Reader
	switch format {
	case FormatTarGz:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case FormatTarXz:
		xzr, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("xz reader: %w", err)
		}
		reader = xzr
	default:
		return fmt.Errorf("artifact %s is not an archive", src)
	}

	if err := fs.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}

		target, err := safeJoin(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := fs.MkdirAll(target, os.FileMode(hdr.Mode)|0o700); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := writeFile(fs, target, tr, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		case tar.TypeSymlink:
			// Skipped on filesystems without symlink support.
			if linker, ok := fs.(afero.Linker); ok {
				_ = fs.Remove(target)
				if err := linker.SymlinkIfPossible(hdr.Linkname, target); err != nil {
					return fmt.Errorf("symlink %s: %w", hdr.Name, err)
				}
			}
		case tar.TypeLink:
			// Hard links are materialized as copies.
			linkSrc, err := safeJoin(destDir, hdr.Linkname)
			if err != nil {
				return err
			}
			if err := copyFile(fs, linkSrc, target, os.FileMode(hdr.Mode)); err != nil {
				return fmt.Errorf("hard link %s: %w", hdr.Name, err)
			}
		}
	}
	return nil
}

// safeJoin joins name under dir and rejects entries that would escape it.
func safeJoin(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.Clean(name))
	if target != dir && !strings.HasPrefix(target, dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes extraction directory", name)
	}
	return target, nil
}

func writeFile(fs afero.Fs, path string, r io.Reader, mode os.FileMode) error {
	out, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyFile(fs afero.Fs, src, dest string, mode os.FileMode) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return writeFile(fs, dest, in, mode)
}
