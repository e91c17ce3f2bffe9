package logging

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// IsTTY reports whether w is a terminal. Any writer exposing Fd() is checked.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// SupportsColor reports whether ANSI colors should be written to w.
// NO_COLOR and TERM=dumb disable colors, as does a non-terminal writer.
func SupportsColor(w io.Writer) bool {
	return supportsColor(IsTTY(w))
}

func supportsColor(isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}

// ConfigureConsole toggles fatih/color globally for command output written
// to w, so colored console messages degrade to plain text in pipes.
func ConfigureConsole(w io.Writer) {
	color.NoColor = !SupportsColor(w)
}
