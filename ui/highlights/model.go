// Package highlights is the panel listing live highlights, with inline
// editing of regex and phrase.
package highlights

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cheerioskun/textmarker/internal/command"
	"github.com/cheerioskun/textmarker/internal/decoration"
	"github.com/cheerioskun/textmarker/internal/messages"
)

// Source names this component in HighlightsChangedMsg.
const Source = "highlights"

// EditKind says what the input line is editing
type EditKind int

const (
	NotEditing EditKind = iota
	AddingRegex
	EditingPhrase
)

// Lister returns the live decorations.
type Lister interface {
	Decorations() []*decoration.Decoration
}

// Model represents the highlights panel state
type Model struct {
	// Data
	live     Lister
	commands *command.Set
	items    []*decoration.Decoration

	// UI State
	cursor    int
	editKind  EditKind
	editInput textinput.Model
	editID    string // Decoration being edited

	// Component state
	focused bool
	width   int
	height  int
}

// NewModel creates a new highlights panel model
func NewModel(live Lister, commands *command.Set) *Model {
	input := textinput.New()
	input.Placeholder = "Enter regex..."
	input.CharLimit = 256

	m := &Model{
		live:      live,
		commands:  commands,
		editInput: input,
		width:     40,
		height:    20,
	}
	m.Reload()
	return m
}

// Reload re-reads the live decorations
func (m *Model) Reload() {
	m.items = m.live.Decorations()
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
}

// Items returns the listed decorations
func (m *Model) Items() []*decoration.Decoration {
	return m.items
}

// Editing reports whether the input line has the keyboard
func (m *Model) Editing() bool {
	return m.editKind != NotEditing
}

// StartAddRegex opens the input for a new regex highlight
func (m *Model) StartAddRegex() tea.Cmd {
	m.editKind = AddingRegex
	m.editID = ""
	m.editInput.Placeholder = "Enter regex..."
	m.editInput.SetValue("")
	return m.editInput.Focus()
}

// StartEditPhrase opens the input prefilled with the phrase of decoration id
func (m *Model) StartEditPhrase(id string) tea.Cmd {
	for i, d := range m.items {
		if d.ID == id {
			m.cursor = i
			m.editKind = EditingPhrase
			m.editID = id
			m.editInput.Placeholder = "Enter phrase..."
			m.editInput.SetValue(d.Pattern.Phrase)
			m.editInput.CursorEnd()
			return m.editInput.Focus()
		}
	}
	return nil
}

// Update handles messages for the highlights panel
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmd tea.Cmd

	// Handle edit mode input
	if m.Editing() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				return m, m.confirmEdit()
			case "esc":
				m.cancelEdit()
				return m, nil
			}
		}
		m.editInput, cmd = m.editInput.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case messages.HighlightsChangedMsg, messages.HighlightsRestoredMsg:
		m.Reload()

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch msg.String() {
		case "up", "k":
			m.moveCursorUp()
		case "down", "j":
			m.moveCursorDown()
		case "a", "r":
			return m, m.StartAddRegex()
		case "e", "enter":
			if d, ok := m.selected(); ok {
				return m, m.StartEditPhrase(d.ID)
			}
		case "d", "delete":
			if d, ok := m.selected(); ok {
				return m, m.run(m.commands.Unhighlight.Execute(d.ID))
			}
		case "i":
			if d, ok := m.selected(); ok {
				return m, m.run(m.commands.ToggleCaseSensitivity.Execute(d.ID))
			}
		case "w":
			if d, ok := m.selected(); ok {
				return m, m.run(m.commands.ToggleWholeMatch.Execute(d.ID))
			}
		case "f":
			if d, ok := m.selected(); ok {
				return m, m.run(m.commands.Refresh.Execute(d.ID))
			}
		}
	}

	return m, cmd
}

// View renders the highlights panel
func (m *Model) View() string {
	if m.Editing() {
		return m.renderEditMode()
	}
	return m.renderNormalMode()
}

// Component interface methods

func (m *Model) Focus() {
	m.focused = true
}

func (m *Model) Blur() {
	m.focused = false
	if m.Editing() {
		m.cancelEdit()
	}
}

func (m *Model) IsFocused() bool {
	return m.focused
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.editInput.Width = max(width-6, 10)
}

// Internal methods

func (m *Model) selected() (*decoration.Decoration, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil, false
	}
	return m.items[m.cursor], true
}

func (m *Model) moveCursorUp() {
	if m.cursor > 0 {
		m.cursor--
	} else if len(m.items) > 0 {
		m.cursor = len(m.items) - 1 // Wrap to bottom
	}
}

func (m *Model) moveCursorDown() {
	if len(m.items) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor < len(m.items)-1 {
		m.cursor++
	} else {
		m.cursor = 0 // Wrap to top
	}
}

func (m *Model) confirmEdit() tea.Cmd {
	value := strings.TrimSpace(m.editInput.Value())
	kind, id := m.editKind, m.editID
	m.cancelEdit()
	if value == "" {
		return nil
	}

	switch kind {
	case AddingRegex:
		res := m.commands.HighlightUsingRegex.Execute(value)
		if res.Action == command.Added {
			m.cursor = len(m.items)
		}
		return m.run(res)
	case EditingPhrase:
		return m.run(m.commands.Update.ExecuteFor(id, value))
	}
	return nil
}

func (m *Model) cancelEdit() {
	m.editKind = NotEditing
	m.editID = ""
	m.editInput.Blur()
	m.editInput.SetValue("")
}

// run reloads the list after a command and tells the app what happened.
func (m *Model) run(res command.Result) tea.Cmd {
	m.Reload()
	return func() tea.Msg {
		return messages.HighlightsChangedMsg{Result: res, Source: Source}
	}
}
