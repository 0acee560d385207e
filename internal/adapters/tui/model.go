package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/cppm/internal/adapters/telemetry"
)

const (
	nodeListWidthRatio = 0.3
	logPaneBorderWidth = 4
)

// NodeStatus represents the current state of a graph node.
type NodeStatus string

const (
	// StatusPending indicates the node is waiting for its imports.
	StatusPending NodeStatus = "Pending"
	// StatusRunning indicates the node is being compiled or touched.
	StatusRunning NodeStatus = "Running"
	// StatusDone indicates the node finished successfully.
	StatusDone NodeStatus = "Done"
	// StatusError indicates the node failed.
	StatusError NodeStatus = "Error"
)

// NodeItem represents a single graph node in the UI list.
type NodeItem struct {
	Name    string
	Status  NodeStatus
	Imports []string
	Target  bool
	Term    *Vterm
}

// Model represents the main TUI state.
type Model struct {
	Nodes          []*NodeItem
	NodeMap        map[string]*NodeItem
	SpanMap        map[string]*NodeItem
	AutoScroll     bool
	ActiveNodeName string
	SelectedIdx    int
	ListOffset     int
	ListHeight     int
	LogWidth       int
	LogHeight      int
	FollowMode     bool
	Failed         bool
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

func (m *Model) selectedNode() *NodeItem {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Nodes) {
		return m.Nodes[m.SelectedIdx]
	}
	return nil
}

func (m *Model) updateActiveView() {
	node := m.selectedNode()
	if node == nil {
		return
	}
	m.ActiveNodeName = node.Name

	if m.FollowMode && m.AutoScroll {
		node.Term.Offset = node.Term.MaxOffset()
	}
}

func (m *Model) selectByName(name string) {
	for i, n := range m.Nodes {
		if n.Name == name {
			m.SelectedIdx = i
			break
		}
	}
	m.ensureVisible()
	m.updateActiveView()
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // message dispatch
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
		if s := msg.String(); s == "q" || s == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		listWidth := int(float64(msg.Width) * nodeListWidthRatio)
		m.LogWidth = msg.Width - listWidth - logPaneBorderWidth
		m.LogHeight = msg.Height - lipgloss.Height(titleStyle.Render("LOGS"))
		m.ListHeight = msg.Height - lipgloss.Height(titleStyle.Render("NODES")+"\n\n")
		m.ensureVisible()

		for _, node := range m.Nodes {
			node.Term.SetWidth(m.LogWidth)
			node.Term.SetHeight(m.LogHeight)
		}

	case telemetry.MsgPlan:
		targets := make(map[string]bool, len(msg.Targets))
		for _, t := range msg.Targets {
			targets[t] = true
		}

		m.Nodes = make([]*NodeItem, len(msg.Nodes))
		m.NodeMap = make(map[string]*NodeItem, len(msg.Nodes))
		m.SpanMap = make(map[string]*NodeItem)
		for i, name := range msg.Nodes {
			term := NewVterm()
			if m.LogWidth > 0 && m.LogHeight > 0 {
				term.SetWidth(m.LogWidth)
				term.SetHeight(m.LogHeight)
			}

			m.Nodes[i] = &NodeItem{
				Name:    name,
				Status:  StatusPending,
				Imports: msg.Imports[name],
				Target:  targets[name],
				Term:    term,
			}
			m.NodeMap[name] = m.Nodes[i]
		}

	case telemetry.MsgNodeStarted:
		if node, ok := m.NodeMap[msg.Name]; ok {
			node.Status = StatusRunning
			m.SpanMap[msg.SpanID] = node

			if m.FollowMode {
				m.selectByName(msg.Name)
			}
		}

	case telemetry.MsgNodeOutput:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			_, _ = node.Term.Write(msg.Data)
		}

	case telemetry.MsgNodeFinished:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			if msg.Err != nil {
				node.Status = StatusError
				m.Failed = true
				// Show the failing node even when browsing manually.
				m.FollowMode = true
				m.selectByName(node.Name)
			} else {
				node.Status = StatusDone
			}
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.FollowMode = false
			m.ensureVisible()
			m.updateActiveView()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.Nodes)-1 {
			m.SelectedIdx++
			m.FollowMode = false
			m.ensureVisible()
			m.updateActiveView()
		}
	case "esc":
		m.FollowMode = true
		for i, n := range m.Nodes {
			if n.Status == StatusRunning {
				m.SelectedIdx = i
				break
			}
		}
		m.ensureVisible()
		m.updateActiveView()
	case "q", "ctrl+c":
	default:
		// Remaining keys scroll the active log pane.
		if node, ok := m.NodeMap[m.ActiveNodeName]; ok {
			node.Term.Update(msg)
		}
	}
}
