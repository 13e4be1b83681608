// Package overview is the panel charting where the highlights of the active
// buffer fall, one bar per group of lines.
package overview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/messages"
	"github.com/cheerioskun/textmarker/internal/overview"
	"github.com/cheerioskun/textmarker/internal/pattern"
)

// JumpMsg asks the app to move the cursor of the active buffer to a line
type JumpMsg struct {
	Line int
}

// Model represents the overview panel state
type Model struct {
	// Data
	buf      *buffer.FileBuffer
	bins     []overview.Bin
	binCount int

	// UI state
	cursor  int
	focused bool
	width   int
	height  int

	// Display options
	maxBarWidth int // Maximum width for bars
}

// NewModel creates a new overview model
func NewModel() *Model {
	return &Model{
		binCount:    overview.DefaultBinCount,
		width:       40,
		height:      20,
		maxBarWidth: 30,
	}
}

// SetBuffer switches the chart to buf
func (m *Model) SetBuffer(buf *buffer.FileBuffer) {
	m.buf = buf
	m.cursor = 0
	m.Refresh()
}

// Refresh re-bins the painted ranges of the buffer
func (m *Model) Refresh() {
	if m.buf == nil {
		m.bins = nil
		return
	}

	spans := m.buf.StyledRanges()
	ranges := make([]pattern.Range, 0, len(spans))
	for _, s := range spans {
		ranges = append(ranges, s.Range)
	}
	m.bins = overview.Build(m.buf.Text(), ranges, m.binCount)
	if m.cursor >= len(m.bins) {
		m.cursor = max(len(m.bins)-1, 0)
	}
}

// Bins returns the current bins
func (m *Model) Bins() []overview.Bin {
	return m.bins
}

// Update handles messages for the overview panel
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.RefreshComponentsMsg, messages.HighlightsChangedMsg:
		m.Refresh()

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.bins)-1 {
				m.cursor++
			}
		case "enter":
			// Jump to the first line of the selected bin
			if m.cursor < len(m.bins) {
				line := m.bins[m.cursor].StartLine
				return m, func() tea.Msg { return JumpMsg{Line: line} }
			}
		case "+", "=":
			// Increase bin count
			if m.binCount < 50 {
				m.binCount += 5
				m.Refresh()
			}
		case "-", "_":
			// Decrease bin count
			if m.binCount > 5 {
				m.binCount -= 5
				m.Refresh()
			}
		}
	}

	return m, nil
}

// View renders the overview panel
func (m *Model) View() string {
	if m.buf == nil || len(m.bins) == 0 {
		return m.renderEmpty()
	}
	return m.renderOverview()
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
	// Adjust max bar width based on available space
	m.maxBarWidth = width - 16 // Leave space for labels
	if m.maxBarWidth < 10 {
		m.maxBarWidth = 10
	}
}
