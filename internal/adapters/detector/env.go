// Package detector picks the renderer for a build from the terminal environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive TUI renderer.
	ModeTUI
	// ModeLinear forces the linear CI renderer.
	ModeLinear
)

// String returns the flag spelling of the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// DetectEnvironment returns the recommended output mode for output written to f.
// CI runs and dumb terminals always get the linear renderer.
func DetectEnvironment(f *os.File) OutputMode {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return ModeLinear
	}
	if isCI() || os.Getenv("TERM") == "dumb" {
		return ModeLinear
	}
	return ModeTUI
}

func isCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}

// ResolveMode applies the --output-mode flag to auto-detection.
// userFlag should be one of: "auto", "tui", "linear", "ci", or empty.
// Unknown values fall back to the detected mode.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "tui":
		return ModeTUI
	case "linear", "ci":
		return ModeLinear
	default:
		return autoDetected
	}
}
