package io

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether stdout is attached to a terminal. Colored
// warnings and debug styling are only used when it is.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}
