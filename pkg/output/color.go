package output

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

var (
	colorOnce    sync.Once
	colorEnabled = true
)

// ColorEnabled reports whether table output may use ANSI styling. It honors
// the NO_COLOR convention (https://no-color.org), dumb terminals, and
// redirected stdout; the result is computed once per process.
func ColorEnabled() bool {
	colorOnce.Do(func() {
		if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
			colorEnabled = false
			return
		}

		if os.Getenv("TERM") == "dumb" {
			colorEnabled = false
			return
		}

		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			colorEnabled = false
		}
	})
	return colorEnabled
}
