package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/cppm/internal/ui/style"
)

var (
	nodePendingStyle = lipgloss.NewStyle().
				Foreground(style.Muted)

	nodeRunningStyle = lipgloss.NewStyle().
				Foreground(style.Accent).
				Bold(true)

	nodeDoneStyle = lipgloss.NewStyle().
			Foreground(style.Success)

	nodeErrorStyle = lipgloss.NewStyle().
			Foreground(style.Failure)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Accent).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Accent).
			Foreground(style.OnAccent)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Failure).
				Foreground(style.OnAccent)

	listStyle = lipgloss.NewStyle().
			PaddingRight(2)

	logStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(style.Muted)
)
