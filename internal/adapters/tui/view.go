package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/cppm/internal/ui/style"
)

// View renders the UI.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.nodeList(),
		m.logPane(),
	)
}

func (m *Model) nodeList() string {
	var s strings.Builder

	title := titleStyle
	if m.Failed {
		title = failureTitleStyle
	}
	s.WriteString(title.Render("NODES") + "\n\n")

	start := m.ListOffset
	end := min(m.ListOffset+m.ListHeight, len(m.Nodes))
	start = min(start, end)

	for i := start; i < end; i++ {
		s.WriteString(m.renderNodeRow(i, m.Nodes[i]) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderNodeRow(index int, node *NodeItem) string {
	rowStyle := nodeStyle(node)

	cursor := "  "
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if node.Status != StatusDone && node.Status != StatusError {
			rowStyle = selectedStyle
		}
	}

	name := node.Name
	if node.Target {
		name += " *"
	}

	return cursor + rowStyle.Render(fmt.Sprintf("%s %s", nodeIcon(node), name))
}

func nodeIcon(node *NodeItem) string {
	switch node.Status {
	case StatusRunning:
		return style.GlyphRunning
	case StatusDone:
		return style.GlyphCompiled
	case StatusError:
		return style.GlyphFailed
	default:
		return style.GlyphPending
	}
}

func nodeStyle(node *NodeItem) lipgloss.Style {
	switch node.Status {
	case StatusRunning:
		return nodeRunningStyle
	case StatusDone:
		return nodeDoneStyle
	case StatusError:
		return nodeErrorStyle
	default:
		return nodePendingStyle
	}
}

func (m *Model) logPane() string {
	var header, content string

	if m.ActiveNodeName != "" {
		mode := " (Manual)"
		if m.FollowMode {
			mode = " (Following)"
		}
		header = titleStyle.Render("LOGS: " + m.ActiveNodeName + mode)

		if node, ok := m.NodeMap[m.ActiveNodeName]; ok {
			content = node.Term.View()
		}
	} else {
		header = titleStyle.Render("LOGS (Waiting...)")
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			content,
		),
	)
}
