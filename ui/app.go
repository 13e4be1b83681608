package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"

	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/command"
	"github.com/cheerioskun/textmarker/internal/config"
	"github.com/cheerioskun/textmarker/internal/export"
	"github.com/cheerioskun/textmarker/internal/messages"
	"github.com/cheerioskun/textmarker/internal/mode"
	"github.com/cheerioskun/textmarker/internal/operator"
	"github.com/cheerioskun/textmarker/internal/pubsub"
	"github.com/cheerioskun/textmarker/internal/utils"
	uiexport "github.com/cheerioskun/textmarker/ui/export"
	"github.com/cheerioskun/textmarker/ui/filelist"
	"github.com/cheerioskun/textmarker/ui/highlights"
	"github.com/cheerioskun/textmarker/ui/overview"
	"github.com/cheerioskun/textmarker/ui/status"
	"github.com/cheerioskun/textmarker/ui/textview"
)

// Source names the app in HighlightsChangedMsg.
const Source = "app"

// FocusedPanel represents which panel is currently focused
type FocusedPanel int

const (
	FileListPanel FocusedPanel = iota
	TextPanel
	HighlightsPanel
	OverviewPanel
)

// Deps are the engine pieces the app drives.
type Deps struct {
	Buffers    *buffer.Set
	Operator   *operator.Operator
	Commands   *command.Set
	Modes      *mode.Registry
	ModeBroker *pubsub.Broker[mode.Mode]
	Changes    <-chan []string // Optional, from the file watcher
	Fs         afero.Fs        // Export destination, defaults to the OS
}

// AppModel represents the main application model
type AppModel struct {
	deps Deps

	// Components
	files      *filelist.Model
	text       *textview.Model
	highlights *highlights.Model
	overview   *overview.Model
	status     *status.Model
	exporter   *uiexport.Model

	// UI state
	focused      FocusedPanel
	width        int
	height       int
	panels       []FocusedPanel
	currentPanel int

	quitting bool
}

// NewAppModel creates a new application model. The status bar subscribes to
// mode events here, before Init lets the mode registry broadcast.
func NewAppModel(ctx context.Context, deps Deps) *AppModel {
	fs := deps.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	m := &AppModel{
		deps:       deps,
		files:      filelist.NewModel(),
		text:       textview.NewModel(),
		highlights: highlights.NewModel(deps.Operator, deps.Commands),
		overview:   overview.NewModel(),
		status:     status.NewModel(ctx, deps.Modes.Mode(), deps.ModeBroker),
		exporter: uiexport.NewModel(export.NewService(fs), func(path string) error {
			return export.ValidateExportPath(fs, path)
		}),
		focused: TextPanel,
		width:   80,
		height:  24,
		panels:  []FocusedPanel{FileListPanel, TextPanel, HighlightsPanel, OverviewPanel},
	}
	m.currentPanel = 1
	m.text.Focus()

	if buf, ok := deps.Buffers.Active(); ok {
		m.text.SetBuffer(buf)
		m.overview.SetBuffer(buf)
	}
	m.refreshPanels()
	return m
}

// Init restores saved highlights, then marks the mode registry ready.
func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.status.Init(),
		m.restoreCmd(),
		m.waitForChanges(),
	)
}

// Update implements tea.Model
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pubsub.Event[mode.Mode]:
		var cmd tea.Cmd
		m.status, cmd = m.status.Update(msg)
		return m, cmd

	case messages.HighlightsRestoredMsg:
		m.refreshPanels()
		if msg.Err != nil {
			return m, statusCmd("Restoring highlights failed", msg.Err)
		}
		return m, statusCmd(fmt.Sprintf("Restored %d highlights", msg.Count), nil)

	case messages.HighlightsChangedMsg:
		m.refreshPanels()
		return m, statusCmd(describe(msg.Result), nil)

	case messages.FilesChangedMsg:
		m.reloadFiles(msg.Paths)
		return m, m.waitForChanges()

	case messages.StatusMsg:
		m.status.Update(msg)
		return m, nil

	case filelist.ActivateMsg:
		if m.deps.Buffers.Activate(msg.ID) {
			buf, _ := m.deps.Buffers.Active()
			m.text.SetBuffer(buf)
			m.overview.SetBuffer(buf)
			m.refreshPanels()
		}
		return m, nil

	case overview.JumpMsg:
		if buf, ok := m.deps.Buffers.Active(); ok {
			buf.GotoLine(msg.Line)
			m.focusPanel(int(TextPanel))
			m.text.Refresh()
		}
		return m, nil

	case uiexport.ExportModalCompletedMsg:
		m.exporter, _ = m.exporter.Update(msg)
		if !msg.Success {
			return m, statusCmd("Export failed", msg.Error)
		}
		return m, statusCmd(fmt.Sprintf("Exported %d highlighted lines", msg.Summary.LineCount), nil)

	case uiexport.ExportModalCancelledMsg:
		return m, statusCmd("Export cancelled", nil)
	}

	return m, nil
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Open inputs own every key
	if m.exporter.IsVisible() {
		var cmd tea.Cmd
		m.exporter, cmd = m.exporter.Update(msg)
		return m, cmd
	}
	if m.highlights.Editing() {
		var cmd tea.Cmd
		m.highlights, cmd = m.highlights.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.focusPanel((m.currentPanel + 1) % len(m.panels))
		return m, nil

	case "shift+tab":
		m.focusPanel((m.currentPanel - 1 + len(m.panels)) % len(m.panels))
		return m, nil

	case "t":
		buf, ok := m.deps.Buffers.Active()
		if !ok {
			return m, nil
		}
		res := m.deps.Commands.Toggle.Execute(buf)
		buf.ClearSelection()
		return m, changedCmd(res)

	case "/":
		m.focusPanel(int(HighlightsPanel))
		return m, m.highlights.StartAddRegex()

	case "alt+c":
		return m, modeCmd(m.deps.Commands.CaseSensitivityMode.Execute())

	case "alt+w":
		return m, modeCmd(m.deps.Commands.WholeMatchMode.Execute())

	case "C":
		if d, ok := m.decorationAtCursor(); ok {
			return m, changedCmd(m.deps.Commands.ToggleCaseSensitivity.Execute(d))
		}
		return m, nil

	case "W":
		if d, ok := m.decorationAtCursor(); ok {
			return m, changedCmd(m.deps.Commands.ToggleWholeMatch.Execute(d))
		}
		return m, nil

	case "u":
		if d, ok := m.decorationAtCursor(); ok {
			m.focusPanel(int(HighlightsPanel))
			return m, m.highlights.StartEditPhrase(d)
		}
		return m, statusCmd("No highlight under the cursor", nil)

	case "x":
		n := m.deps.Commands.RemoveAll.Execute()
		m.refreshPanels()
		return m, statusCmd(fmt.Sprintf("Removed %d highlights", n), nil)

	case "s":
		return m, m.saveCmd(config.Workspace)

	case "S":
		return m, m.saveCmd(config.Global)

	case "E":
		return m, m.exporter.Show(m.deps.Buffers.Files())

	case "?":
		return m, statusCmd("t: Toggle • /: Regex • alt+c/alt+w: Mode • C/W: Flags • u: Edit • x: Clear • s/S: Save • E: Export", nil)
	}

	var cmd tea.Cmd
	switch m.focused {
	case FileListPanel:
		m.files, cmd = m.files.Update(msg)
	case TextPanel:
		m.text, cmd = m.text.Update(msg)
	case HighlightsPanel:
		m.highlights, cmd = m.highlights.Update(msg)
	case OverviewPanel:
		m.overview, cmd = m.overview.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model
func (m *AppModel) View() string {
	if m.quitting {
		return "Bye!\n"
	}
	if m.exporter.IsVisible() {
		return m.exporter.View()
	}

	headerHeight := 1
	statusHeight := 3
	contentHeight := max(m.height-headerHeight-statusHeight, 4)

	leftWidth := m.width / 3
	rightWidth := m.width - leftWidth
	filesHeight := contentHeight / 2
	highlightsHeight := contentHeight - filesHeight
	textHeight := contentHeight * 2 / 3
	overviewHeight := contentHeight - textHeight

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		Render("textmarker")

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.panelStyle(FileListPanel, leftWidth, filesHeight).Render(m.files.View()),
		m.panelStyle(HighlightsPanel, leftWidth, highlightsHeight).Render(m.highlights.View()),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.panelStyle(TextPanel, rightWidth, textHeight).Render(m.text.View()),
		m.panelStyle(OverviewPanel, rightWidth, overviewHeight).Render(m.overview.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		m.status.View(),
	)
}

// layout hands each component the space inside its panel border.
func (m *AppModel) layout() {
	contentHeight := max(m.height-4, 4)
	leftWidth := m.width / 3
	rightWidth := m.width - leftWidth
	filesHeight := contentHeight / 2
	textHeight := contentHeight * 2 / 3

	m.files.SetSize(leftWidth-4, filesHeight-2)
	m.highlights.SetSize(leftWidth-4, contentHeight-filesHeight-2)
	m.text.SetSize(rightWidth-4, textHeight-2)
	m.overview.SetSize(rightWidth-4, contentHeight-textHeight-2)
	m.status.SetSize(m.width)
	m.exporter.SetSize(m.width, m.height)
}

func (m *AppModel) panelStyle(panel FocusedPanel, width, height int) lipgloss.Style {
	borderColor := lipgloss.Color("240")
	if panel == m.focused {
		borderColor = lipgloss.Color("205")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		Padding(0, 1)
}

func (m *AppModel) focusPanel(i int) {
	m.files.Blur()
	m.text.Blur()
	m.highlights.Blur()
	m.overview.Blur()

	m.currentPanel = i
	m.focused = m.panels[i]
	switch m.focused {
	case FileListPanel:
		m.files.Focus()
	case TextPanel:
		m.text.Focus()
	case HighlightsPanel:
		m.highlights.Focus()
	case OverviewPanel:
		m.overview.Focus()
	}
}

// refreshPanels re-reads buffers and highlights into every component.
func (m *AppModel) refreshPanels() {
	m.files.SetBuffers(m.deps.Buffers.Files(), m.deps.Buffers.ActiveIndex())
	m.text.Refresh()
	m.overview.Refresh()
	m.highlights.Reload()
	m.status.SetHighlightCount(len(m.deps.Operator.Decorations()))
}

func (m *AppModel) reloadFiles(paths []string) {
	changed := 0
	for _, path := range paths {
		buf, ok := m.deps.Buffers.Get(path)
		if !ok {
			continue
		}
		ok, err := buf.Reload()
		if errors.Is(err, os.ErrNotExist) {
			m.closeBuffer(path)
			changed++
			continue
		}
		if err != nil {
			utils.Warning(utils.CatUI, "reload failed", "path", path, "error", err)
			continue
		}
		if ok {
			changed++
		}
	}
	if changed > 0 {
		m.deps.Operator.RefreshDecorations()
		m.refreshPanels()
	}
	utils.Debug(utils.CatUI, "files changed", "paths", len(paths), "reloaded", changed)
}

// closeBuffer drops a buffer whose file is gone and shows the next active one.
func (m *AppModel) closeBuffer(id string) {
	if err := m.deps.Buffers.Close(id); err != nil {
		utils.Warning(utils.CatUI, "close failed", "path", id, "error", err)
		return
	}
	m.deps.Operator.ForgetBuffer(id)

	buf, _ := m.deps.Buffers.Active()
	m.text.SetBuffer(buf)
	m.overview.SetBuffer(buf)
	utils.Info(utils.CatUI, "buffer closed", "path", id)
}

// decorationAtCursor returns the id of the highlight under the selection
// start of the active buffer.
func (m *AppModel) decorationAtCursor() (string, bool) {
	buf, ok := m.deps.Buffers.Active()
	if !ok {
		return "", false
	}
	d, ok := m.deps.Operator.DecorationAt(buf.ID(), buf.Selection().Start)
	if !ok {
		return "", false
	}
	return d.ID, true
}

func (m *AppModel) restoreCmd() tea.Cmd {
	restorer := m.deps.Commands.SavedHighlightRestorer
	modes := m.deps.Modes
	return func() tea.Msg {
		n, err := restorer.Restore()
		modes.Ready()
		return messages.HighlightsRestoredMsg{Count: n, Err: err}
	}
}

func (m *AppModel) saveCmd(target config.Target) tea.Cmd {
	save := m.deps.Commands.SaveAll
	return func() tea.Msg {
		n, err := save.Execute(target)
		if err != nil {
			return messages.StatusMsg{Text: "Save failed", Err: err}
		}
		return messages.StatusMsg{Text: fmt.Sprintf("Saved %d highlights to %s config", n, target)}
	}
}

func (m *AppModel) waitForChanges() tea.Cmd {
	if m.deps.Changes == nil {
		return nil
	}
	ch := m.deps.Changes
	return func() tea.Msg {
		paths, ok := <-ch
		if !ok {
			return nil
		}
		return messages.FilesChangedMsg{Paths: paths}
	}
}

func changedCmd(res command.Result) tea.Cmd {
	return func() tea.Msg {
		return messages.HighlightsChangedMsg{Result: res, Source: Source}
	}
}

func statusCmd(text string, err error) tea.Cmd {
	return func() tea.Msg {
		return messages.StatusMsg{Text: text, Err: err}
	}
}

func modeCmd(md mode.Mode) tea.Cmd {
	return statusCmd(fmt.Sprintf("New highlights: ignore case %t, whole match %t", md.IgnoreCase, md.WholeMatch), nil)
}

func describe(res command.Result) string {
	if res.Action == command.NoOp || res.Decoration == nil {
		return "Nothing changed"
	}
	return fmt.Sprintf("%s %s", res.Action, res.Decoration.Pattern)
}
