package cli

// GlobalFlags exposes the root-level flags to every subcommand.
type GlobalFlags interface {
	InstallDirectory() string
	IsQuiet() bool
	EnableDebug() bool
	DisableColor() bool
}

// Globals carries the parsed root-level flag values.
type Globals struct {
	InstallDir string
	Quiet      bool
	Debug      bool
	NoColor    bool
}

func (g Globals) InstallDirectory() string {
	return g.InstallDir
}

func (g Globals) IsQuiet() bool {
	return g.Quiet
}

func (g Globals) EnableDebug() bool {
	return g.Debug
}

func (g Globals) DisableColor() bool {
	return g.NoColor
}
