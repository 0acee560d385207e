// Package output builds termenv outputs whose color profile follows the way
// cppm is being run.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Mode selects how the color profile is chosen.
type Mode int

const (
	// Interactive detects the terminal's capabilities. Used by the TUI and
	// the pretty log handler.
	Interactive Mode = iota
	// Plain emits basic ANSI colors, which CI log viewers understand.
	Plain
)

// Profile returns the color profile for mode. NO_COLOR forces Ascii.
func Profile(mode Mode) termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if mode == Plain {
		return termenv.ANSI
	}
	return termenv.EnvColorProfile()
}

// New returns an output writing to w, or to stderr when w is nil.
func New(w io.Writer, mode Mode) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w,
		termenv.WithProfile(Profile(mode)),
		termenv.WithTTY(true),
	)
}
