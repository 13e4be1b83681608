// Package textview renders the active buffer with its highlights, cursor and
// selection, and moves the cursor.
package textview

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cheerioskun/textmarker/internal/buffer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	positionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Model shows one buffer.
type Model struct {
	buf      *buffer.FileBuffer
	viewport viewport.Model
	focused  bool
	width    int
	height   int
}

// NewModel creates an empty text view.
func NewModel() *Model {
	return &Model{
		viewport: viewport.New(40, 10),
		width:    40,
		height:   12,
	}
}

// SetBuffer switches the view to buf.
func (m *Model) SetBuffer(buf *buffer.FileBuffer) {
	if m.buf != buf {
		m.viewport.GotoTop()
	}
	m.buf = buf
	m.Refresh()
}

// Buffer returns the buffer on display.
func (m *Model) Buffer() *buffer.FileBuffer {
	return m.buf
}

// Update handles cursor and selection keys while focused
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if m.buf == nil || !m.focused {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "left", "h":
		m.buf.MoveCursor(-1)
	case "right", "l":
		m.buf.MoveCursor(1)
	case "up", "k":
		m.buf.MoveLine(-1)
	case "down", "j":
		m.buf.MoveLine(1)
	case "pgup":
		m.buf.MoveLine(-m.viewport.Height)
	case "pgdown":
		m.buf.MoveLine(m.viewport.Height)
	case "v":
		if m.buf.Selecting() {
			m.buf.ClearSelection()
		} else {
			m.buf.StartSelection()
		}
	case "esc":
		m.buf.ClearSelection()
	default:
		return m, nil
	}

	m.Refresh()
	return m, nil
}

// Refresh re-renders the buffer and keeps the cursor line visible.
func (m *Model) Refresh() {
	if m.buf == nil {
		m.viewport.SetContent(emptyStyle.Render("No file open"))
		return
	}

	lines := RenderLines([]rune(m.buf.Text()), m.buf.StyledRanges(), m.buf.Selection(), m.buf.Cursor())
	m.viewport.SetContent(strings.Join(lines, "\n"))

	line, _ := m.buf.Position()
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
	} else if line >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

// View renders the component
func (m *Model) View() string {
	title := "No file"
	if m.buf != nil {
		title = filepath.Base(m.buf.Path())
	}
	if m.focused {
		title += " *"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		m.viewport.View(),
		positionStyle.Render(m.position()),
	)
}

func (m *Model) position() string {
	if m.buf == nil {
		return ""
	}
	line, col := m.buf.Position()
	pos := fmt.Sprintf("Ln %d, Col %d", line+1, col+1)
	if sel := m.buf.Selection(); !sel.IsEmpty() {
		pos += fmt.Sprintf(" (%d selected)", sel.Len())
	}
	return pos
}

// Component interface methods

func (m *Model) Focus() {
	m.focused = true
}

func (m *Model) Blur() {
	m.focused = false
}

func (m *Model) IsFocused() bool {
	return m.focused
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	// Title and position line
	viewportHeight := height - 2
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	m.viewport.Width = width
	m.viewport.Height = viewportHeight
	m.Refresh()
}
