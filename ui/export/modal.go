// Package export is the modal that writes highlighted lines to a directory.
package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/export"
)

// Styling
var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Align(lipgloss.Center)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Margin(1, 0)

	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Margin(1, 0)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Align(lipgloss.Center).
			Margin(1, 0)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			Margin(1, 0)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true).
			Margin(1, 0)
)

// State represents the modal's current state
type State int

const (
	StateInput State = iota
	StateConfirmOverwrite
	StateExporting
	StateSuccess
	StateError
)

// Model represents the export modal
type Model struct {
	// UI components
	textInput textinput.Model

	// State
	state   State
	visible bool
	width   int
	height  int

	// Data
	files          []*buffer.FileBuffer
	root           string
	destPath       string
	conflicts      []string
	exportService  *export.Service
	exportSummary  *export.Summary
	validate       func(string) error
	errorMessage   string
	successMessage string
}

// ExportModalCancelledMsg is sent when user cancels export
type ExportModalCancelledMsg struct{}

// ExportModalCompletedMsg is sent when export operation completes
type ExportModalCompletedMsg struct {
	Success bool
	Error   error
	Summary *export.Summary
}

// NewModel creates a new export modal. validate checks a destination
// before anything is written.
func NewModel(exportService *export.Service, validate func(string) error) *Model {
	ti := textinput.New()
	ti.Placeholder = "Enter export destination..."
	ti.CharLimit = 256
	ti.Width = 50

	return &Model{
		textInput:     ti,
		state:         StateInput,
		exportService: exportService,
		validate:      validate,
	}
}

// Show displays the modal for files
func (m *Model) Show(files []*buffer.FileBuffer) tea.Cmd {
	m.visible = true
	m.state = StateInput
	m.files = files
	m.root = export.CommonRoot(pathsOf(files))
	m.conflicts = nil
	m.errorMessage = ""
	m.successMessage = ""

	defaultPath, err := export.GetDefaultExportPath(m.root)
	if err != nil {
		defaultPath = "./textmarker_highlights"
	}

	m.textInput.SetValue(defaultPath)
	m.textInput.CursorEnd()
	m.updateSummary()
	return m.textInput.Focus()
}

// Hide hides the modal
func (m *Model) Hide() {
	m.visible = false
	m.textInput.Blur()
	m.state = StateInput
}

// IsVisible returns true if the modal is visible
func (m *Model) IsVisible() bool {
	return m.visible
}

// State returns the modal's current state
func (m *Model) State() State {
	return m.state
}

// SetSize sets the modal size
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the export modal
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case StateInput:
			switch msg.String() {
			case "enter":
				return m.confirmExport()
			case "esc":
				m.Hide()
				return m, func() tea.Msg { return ExportModalCancelledMsg{} }
			default:
				m.textInput, cmd = m.textInput.Update(msg)
				m.updateSummary()
				return m, cmd
			}
		case StateConfirmOverwrite:
			switch msg.String() {
			case "y", "Y":
				m.state = StateExporting
				return m, m.performExport(m.destPath, true)
			case "n", "N", "esc":
				m.state = StateInput
				m.conflicts = nil
				return m, m.textInput.Focus()
			}
			return m, nil
		case StateExporting:
			// Don't handle input while exporting
			return m, nil
		case StateSuccess, StateError:
			// Any key closes the modal after success/error
			m.Hide()
			return m, nil
		}

	case ExportModalCompletedMsg:
		if msg.Success {
			m.state = StateSuccess
			m.exportSummary = msg.Summary
			m.successMessage = fmt.Sprintf("Exported %d lines from %d files to %s",
				msg.Summary.LineCount, msg.Summary.FileCount, msg.Summary.DestinationPath)
		} else {
			m.state = StateError
			m.errorMessage = fmt.Sprintf("Export failed: %v", msg.Error)
		}
		return m, nil

	default:
		if m.state == StateInput {
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View renders the export modal
func (m *Model) View() string {
	if !m.visible {
		return ""
	}

	var content string

	switch m.state {
	case StateInput:
		content = m.renderInputState()
	case StateConfirmOverwrite:
		content = m.renderConfirmState()
	case StateExporting:
		content = m.renderExportingState()
	case StateSuccess:
		content = m.renderSuccessState()
	case StateError:
		content = m.renderErrorState()
	}

	styledContent := modalStyle.
		Width(60).
		Render(content)

	// Center the modal on screen
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, styledContent)
}

// renderInputState renders the input state of the modal
func (m *Model) renderInputState() string {
	var parts []string

	parts = append(parts, titleStyle.Render("Export Highlighted Lines"))

	// Preview information
	if m.exportSummary != nil {
		preview := fmt.Sprintf("Files with highlights: %d\nHighlighted lines: %d",
			m.exportSummary.FileCount, m.exportSummary.LineCount)
		parts = append(parts, previewStyle.Render(preview))
	}

	parts = append(parts, "Destination Path:")
	parts = append(parts, inputStyle.Render(m.textInput.View()))

	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}

	parts = append(parts, helpStyle.Render("Enter: Export • Esc: Cancel"))

	return strings.Join(parts, "\n")
}

// renderConfirmState asks before replacing existing files
func (m *Model) renderConfirmState() string {
	parts := []string{
		titleStyle.Render("Overwrite Existing Files?"),
		errorStyle.Render(fmt.Sprintf("%d file(s) under %s already exist:", len(m.conflicts), m.destPath)),
	}
	shown := m.conflicts
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, path := range shown {
		parts = append(parts, previewStyle.Render("  "+path))
	}
	if extra := len(m.conflicts) - len(shown); extra > 0 {
		parts = append(parts, previewStyle.Render(fmt.Sprintf("  ... and %d more", extra)))
	}
	parts = append(parts, helpStyle.Render("y: Overwrite • n/Esc: Back"))
	return strings.Join(parts, "\n")
}

// renderExportingState renders the exporting state
func (m *Model) renderExportingState() string {
	return strings.Join([]string{
		titleStyle.Render("Exporting..."),
		previewStyle.Render("Please wait while lines are being written..."),
	}, "\n")
}

// renderSuccessState renders the success state
func (m *Model) renderSuccessState() string {
	return strings.Join([]string{
		titleStyle.Render("Export Complete"),
		successStyle.Render(m.successMessage),
		helpStyle.Render("Press any key to close"),
	}, "\n")
}

// renderErrorState renders the error state
func (m *Model) renderErrorState() string {
	return strings.Join([]string{
		titleStyle.Render("Export Failed"),
		errorStyle.Render(m.errorMessage),
		helpStyle.Render("Press any key to close"),
	}, "\n")
}

// confirmExport starts the export process
func (m *Model) confirmExport() (*Model, tea.Cmd) {
	destPath := strings.TrimSpace(m.textInput.Value())

	if err := m.validate(destPath); err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}
	if m.exportSummary == nil || m.exportSummary.FileCount == 0 {
		m.errorMessage = "No highlighted lines to export"
		return m, nil
	}

	conflicts, err := m.exportService.Conflicts(m.files, m.options(destPath, false))
	if err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}

	m.errorMessage = ""
	m.destPath = destPath
	if len(conflicts) > 0 {
		m.conflicts = conflicts
		m.state = StateConfirmOverwrite
		m.textInput.Blur()
		return m, nil
	}

	m.state = StateExporting
	return m, m.performExport(destPath, false)
}

func (m *Model) options(destPath string, overwrite bool) export.Options {
	return export.Options{
		DestinationPath:   destPath,
		PreserveStructure: true,
		Root:              m.root,
		Overwrite:         overwrite,
	}
}

// updateSummary recounts what the current destination would receive
func (m *Model) updateSummary() {
	destPath := strings.TrimSpace(m.textInput.Value())
	if destPath != "" {
		m.exportSummary = m.exportService.Summarize(m.files, destPath)
	}
}

// performExport writes the files off the update loop
func (m *Model) performExport(destPath string, overwrite bool) tea.Cmd {
	files, svc, opts := m.files, m.exportService, m.options(destPath, overwrite)
	return func() tea.Msg {
		summary, err := svc.Export(files, opts)
		return ExportModalCompletedMsg{
			Success: err == nil,
			Error:   err,
			Summary: summary,
		}
	}
}

func pathsOf(files []*buffer.FileBuffer) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path())
	}
	return out
}
