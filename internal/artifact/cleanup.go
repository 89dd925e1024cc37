package artifact

import (
	"os"

	"github.com/spf13/afero"
)

// Remove deletes installed and fetched artifacts plus the given catalog
// cache files. With all set it spans every build under the install root;
// otherwise only the layout's build is removed. Absent paths are ignored,
// so running it twice is harmless.
func Remove(fs afero.Fs, layout Layout, cachePaths []string, all bool) error {
	var targets []string
	if all {
		targets = CategoryRoots(layout.Root)
	} else {
		targets = []string{
			layout.FetchedDir(),
			layout.HeadersDir(),
			layout.KernelSrcDir(),
			layout.ToolchainDir(),
		}
	}
	targets = append(targets, cachePaths...)

	for _, t := range targets {
		if err := fs.RemoveAll(t); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
