// Package status renders the bottom line: matching mode, counts and the
// last command outcome.
package status

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cheerioskun/textmarker/internal/messages"
	"github.com/cheerioskun/textmarker/internal/mode"
	"github.com/cheerioskun/textmarker/internal/pubsub"
)

var (
	barStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	onStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	offStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model is the status bar
type Model struct {
	mode     mode.Mode
	listener *pubsub.ContinuousListener[mode.Mode]

	text       string
	err        bool
	highlights int

	width int
}

// NewModel subscribes to mode changes on broker for the lifetime of ctx.
// The subscription is taken here so it exists before the registry's first
// broadcast.
func NewModel(ctx context.Context, initial mode.Mode, broker *pubsub.Broker[mode.Mode]) *Model {
	return &Model{
		mode:     initial,
		listener: pubsub.NewContinuousListener(ctx, broker),
		text:     "Ready",
		width:    80,
	}
}

// Init starts listening for mode events
func (m *Model) Init() tea.Cmd {
	return m.listener.Listen()
}

// Mode returns the mode as last broadcast
func (m *Model) Mode() mode.Mode {
	return m.mode
}

// Text returns the current status text
func (m *Model) Text() string {
	return m.text
}

// SetHighlightCount sets the number of live highlights shown
func (m *Model) SetHighlightCount(n int) {
	m.highlights = n
}

// Update handles mode events and status messages
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pubsub.Event[mode.Mode]:
		m.mode = msg.Payload
		return m, m.listener.Listen()

	case messages.StatusMsg:
		if msg.Err != nil {
			m.text = fmt.Sprintf("%s: %v", msg.Text, msg.Err)
			m.err = true
		} else {
			m.text = msg.Text
			m.err = false
		}
	}
	return m, nil
}

// View renders the status bar
func (m *Model) View() string {
	text := m.text
	if m.err {
		text = errorStyle.Render(text)
	}

	parts := []string{
		flag("Aa", !m.mode.IgnoreCase),
		flag("Whole", m.mode.WholeMatch),
		fmt.Sprintf("Highlights: %d", m.highlights),
		text,
	}
	return barStyle.Width(max(m.width-2, 10)).Render(strings.Join(parts, " | "))
}

func (m *Model) SetSize(width int) {
	m.width = width
}

func flag(label string, on bool) string {
	if on {
		return onStyle.Render(label)
	}
	return offStyle.Render(label)
}
