// Package tui provides a terminal user interface for the build system.
package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/cppm/internal/ui/output"
)

// NewModel creates a new TUI model with default settings.
func NewModel(w io.Writer) Model {
	if w == nil {
		w = os.Stderr
	}

	out := output.New(w, output.Interactive)
	lipgloss.SetColorProfile(out.Profile)

	return Model{
		Nodes:      make([]*NodeItem, 0),
		NodeMap:    make(map[string]*NodeItem),
		SpanMap:    make(map[string]*NodeItem),
		AutoScroll: true,
		FollowMode: true,
	}
}
