package filelist

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/messages"
)

// Entry is one open buffer as listed
type Entry struct {
	ID         string
	Path       string
	Runes      int
	Highlights int // Painted spans
}

// ActivateMsg asks the app to show another buffer
type ActivateMsg struct {
	ID string
}

// Model represents the open buffer list
type Model struct {
	// Data
	entries []Entry
	active  int

	// UI state
	cursor   int
	focused  bool
	width    int
	height   int
	viewport viewport.Model

	// Styles
	titleStyle  lipgloss.Style
	fileStyle   lipgloss.Style
	activeStyle lipgloss.Style
	cursorStyle lipgloss.Style
	sizeStyle   lipgloss.Style
	emptyStyle  lipgloss.Style
}

// NewModel creates a new buffer list model
func NewModel() *Model {
	vp := viewport.New(30, 6) // Initial size, will be updated in SetSize
	vp.SetContent("")

	return &Model{
		width:    30,
		height:   10,
		viewport: vp,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),

		fileStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")),

		activeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true),

		cursorStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("205")).
			Foreground(lipgloss.Color("0")),

		sizeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		emptyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),
	}
}

// SetBuffers replaces the listed buffers
func (m *Model) SetBuffers(files []*buffer.FileBuffer, active int) {
	m.entries = make([]Entry, 0, len(files))
	for _, f := range files {
		m.entries = append(m.entries, Entry{
			ID:         f.ID(),
			Path:       f.Path(),
			Runes:      f.Len(),
			Highlights: len(f.StyledRanges()),
		})
	}
	m.active = active
	if m.cursor >= len(m.entries) {
		m.cursor = max(len(m.entries)-1, 0)
	}
	m.updateViewportContent()
}

// Entries returns the listed buffers
func (m *Model) Entries() []Entry {
	return m.entries
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.RefreshComponentsMsg:
		m.updateViewportContent()
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(len(m.entries)-1, 0)
		case "enter", " ":
			if m.cursor < len(m.entries) {
				id := m.entries[m.cursor].ID
				return m, func() tea.Msg { return ActivateMsg{ID: id} }
			}
		}
		m.updateViewportContent()
	}

	return m, nil
}

// View renders the component
func (m *Model) View() string {
	title := "Open Files"
	if m.focused {
		title += " *"
	}
	header := m.titleStyle.Render(title)

	var content string
	if len(m.entries) == 0 {
		content = m.emptyStyle.Render("No files open")
	} else {
		content = m.viewport.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, m.renderSummary())
}

// updateViewportContent updates the viewport with the current buffer list
func (m *Model) updateViewportContent() {
	if len(m.entries) == 0 {
		m.viewport.SetContent("")
		return
	}

	var lines []string
	for i, e := range m.entries {
		name := filepath.Base(e.Path)
		maxNameWidth := m.width - 12 // Leave space for marker and span count
		if maxNameWidth < 8 {
			maxNameWidth = 8
		}
		if len(name) > maxNameWidth {
			name = name[:maxNameWidth-3] + "..."
		}

		marker := " "
		if i == m.active {
			marker = "▸"
		}
		line := fmt.Sprintf("%s %-*s %4d", marker, maxNameWidth, name, e.Highlights)

		switch {
		case m.focused && i == m.cursor:
			line = m.cursorStyle.Render(line)
		case i == m.active:
			line = m.activeStyle.Render(line)
		default:
			line = m.fileStyle.Render(line)
		}
		lines = append(lines, line)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

// renderSummary renders the summary information
func (m *Model) renderSummary() string {
	if len(m.entries) == 0 {
		return ""
	}
	total := 0
	for _, e := range m.entries {
		total += e.Highlights
	}
	return m.sizeStyle.Render(fmt.Sprintf("%d files • %d highlighted spans", len(m.entries), total))
}

// Component interface methods

func (m *Model) Focus() {
	m.focused = true
	m.cursor = m.active
	m.updateViewportContent()
}

func (m *Model) Blur() {
	m.focused = false
	m.updateViewportContent()
}

func (m *Model) IsFocused() bool {
	return m.focused
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	// Account for title and summary
	viewportHeight := height - 2
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	m.viewport.Width = width
	m.viewport.Height = viewportHeight
	m.updateViewportContent()
}
