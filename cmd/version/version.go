package version

import (
	"fmt"
	"os"
	"strings"
)

// Version is set at build time through -ldflags.
var Version = "DEV"

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Fprint(os.Stdout, Format(Version))
	return nil
}

func Format(ver string) string {
	ver = strings.TrimPrefix(ver, "v")
	return fmt.Sprintf("kdev version %s\n", ver)
}
