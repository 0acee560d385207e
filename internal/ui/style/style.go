// Package style holds the palette and glyphs shared by the node list, the
// linear renderer and the pretty log handler.
package style

import "github.com/charmbracelet/lipgloss"

// Palette roles. Renderers pick a role, never a raw hex value.
var (
	// Accent marks the node being compiled and the title bar.
	Accent = lipgloss.Color("#4C7CF0")
	// Muted is used for pending nodes, borders and info logs.
	Muted = lipgloss.Color("#6B7280")
	// OnAccent is text drawn on an Accent or Failure background.
	OnAccent = lipgloss.Color("#FFFFFF")
	// Success marks compiled and touched nodes.
	Success = lipgloss.Color("#2E9E5B")
	// Failure marks failed compiles and error logs.
	Failure = lipgloss.Color("#D9453B")
	// Caution marks warnings.
	Caution = lipgloss.Color("#E0A526")
)

// Node glyphs.
const (
	GlyphPending  = "○"
	GlyphRunning  = "●"
	GlyphCompiled = "✓"
	GlyphFailed   = "✗"
	GlyphWarning  = "!"
)

// Hex returns the "#rrggbb" form of a palette role for termenv.
func Hex(c lipgloss.Color) string {
	return string(c)
}
