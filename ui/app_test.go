package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/config"
	"github.com/cheerioskun/textmarker/internal/engine"
	"github.com/cheerioskun/textmarker/internal/messages"
	"github.com/cheerioskun/textmarker/internal/pattern"
	"github.com/cheerioskun/textmarker/ui/overview"
)

const workspaceConfig = "/w/.textmarker/config.yaml"

type fixture struct {
	app    *AppModel
	fs     afero.Fs
	buf    *buffer.FileBuffer
	store  *config.Store
	engine *engine.Engine
}

func newFixture(t *testing.T, text string) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/w/a.txt", []byte(text), 0644))

	buffers := buffer.NewSet(fs)
	buf, err := buffers.Open("/w/a.txt")
	require.NoError(t, err)

	store := config.NewStore(fs, "", workspaceConfig)
	e := engine.New(config.Defaults(), buffers, store)
	t.Cleanup(e.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app := NewAppModel(ctx, Deps{
		Buffers:    buffers,
		Operator:   e.Operator,
		Commands:   e.Commands,
		Modes:      e.Modes,
		ModeBroker: e.ModeBroker,
		Fs:         fs,
	})
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &fixture{app: app, fs: fs, buf: buf, store: store, engine: e}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers msg and keeps feeding resulting messages back until a
// command yields nothing.
func (f *fixture) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	for i := 0; i < 5; i++ {
		_, cmd := f.app.Update(msg)
		if cmd == nil {
			return
		}
		if msg = cmd(); msg == nil {
			return
		}
	}
}

func TestToggleKey_AddsAndRemovesHighlight(t *testing.T) {
	f := newFixture(t, "abc SELECTED def SELECTED")
	f.buf.Select(pattern.Range{Start: 4, End: 12})

	f.send(t, key("t"))

	require.Len(t, f.engine.Operator.Decorations(), 1)
	require.Len(t, f.buf.StyledRanges(), 2)
	require.Equal(t, "added SELECTED", f.app.status.Text())
	require.False(t, f.buf.Selecting())

	// Selection starting inside the second occurrence
	f.buf.Select(pattern.Range{Start: 20, End: 22})
	f.send(t, key("t"))

	require.Empty(t, f.engine.Operator.Decorations())
	require.Empty(t, f.buf.StyledRanges())
}

func TestRestoreThenReady(t *testing.T) {
	f := newFixture(t, "error: disk full")
	require.NoError(t, f.store.Save(config.Workspace, []config.SavedHighlight{
		{Pattern: config.SavedPattern{Type: config.TypeString, Expression: "disk"}},
	}))

	msg := f.app.restoreCmd()()
	f.app.Update(msg)

	require.Equal(t, messages.HighlightsRestoredMsg{Count: 1}, msg)
	require.Len(t, f.app.highlights.Items(), 1)
	require.Equal(t, []buffer.StyledRange{{Range: pattern.Range{Start: 7, End: 11}, Handle: f.app.highlights.Items()[0].Style}}, f.buf.StyledRanges())
}

func TestModeKeysReachStatusBar(t *testing.T) {
	f := newFixture(t, "text")
	listen := f.app.status.Init()

	f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c"), Alt: true})
	require.True(t, f.engine.Modes.Mode().IgnoreCase)

	f.app.Update(listen())
	require.True(t, f.app.status.Mode().IgnoreCase)
}

func TestFilesChanged_RefreshesHighlights(t *testing.T) {
	f := newFixture(t, "one cat")
	f.engine.Commands.HighlightUsingRegex.Execute("cat")
	require.Equal(t, 4, f.buf.StyledRanges()[0].Range.Start)

	require.NoError(t, afero.WriteFile(f.fs, "/w/a.txt", []byte("cat cat"), 0644))
	f.app.Update(messages.FilesChangedMsg{Paths: []string{"/w/a.txt", "/w/other.txt"}})

	spans := f.buf.StyledRanges()
	require.Len(t, spans, 2)
	require.Equal(t, 0, spans[0].Range.Start)
}

func TestFilesChanged_ClosesRemovedFile(t *testing.T) {
	f := newFixture(t, "one cat")
	f.engine.Commands.HighlightUsingRegex.Execute("cat")
	_, ok := f.engine.Operator.DecorationAt("/w/a.txt", 4)
	require.True(t, ok)

	require.NoError(t, f.fs.Remove("/w/a.txt"))
	f.app.Update(messages.FilesChangedMsg{Paths: []string{"/w/a.txt"}})

	require.Equal(t, 0, f.app.deps.Buffers.Len())
	require.Nil(t, f.app.text.Buffer())
	_, ok = f.engine.Operator.DecorationAt("/w/a.txt", 4)
	require.False(t, ok)
	require.Len(t, f.engine.Operator.Decorations(), 1)
}

func TestUpdateKey_EditsHighlightUnderCursor(t *testing.T) {
	f := newFixture(t, "foo bar")
	f.engine.Commands.HighlightUsingRegex.Execute("foo")
	f.app.refreshPanels()
	f.buf.Select(pattern.Range{Start: 1, End: 1})

	f.app.Update(key("u"))
	require.True(t, f.app.highlights.Editing())
	require.Equal(t, HighlightsPanel, f.app.focused)

	for i := 0; i < 3; i++ {
		f.app.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	f.app.Update(key("bar"))
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})

	require.False(t, f.app.highlights.Editing())
	require.Equal(t, "bar", f.engine.Operator.Decorations()[0].Pattern.Phrase)
	require.Equal(t, 4, f.buf.StyledRanges()[0].Range.Start)
}

func TestSaveKey_WritesWorkspaceConfig(t *testing.T) {
	f := newFixture(t, "foo")
	f.engine.Commands.HighlightUsingRegex.Execute("f+")

	f.send(t, key("s"))

	require.Equal(t, "Saved 1 highlights to workspace config", f.app.status.Text())
	data, err := afero.ReadFile(f.fs, workspaceConfig)
	require.NoError(t, err)
	require.Contains(t, string(data), "expression: f+")
}

func TestTabCyclesFocus(t *testing.T) {
	f := newFixture(t, "x")
	require.Equal(t, TextPanel, f.app.focused)

	f.app.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, HighlightsPanel, f.app.focused)
	require.True(t, f.app.highlights.IsFocused())

	f.app.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, OverviewPanel, f.app.focused)

	f.app.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, FileListPanel, f.app.focused)
}

func TestOverviewJumpMovesCursor(t *testing.T) {
	f := newFixture(t, "a\nb\nfound")
	f.engine.Commands.HighlightUsingRegex.Execute("found")
	f.app.refreshPanels()
	require.Equal(t, 1, f.app.overview.Bins()[2].Count)

	f.app.Update(overview.JumpMsg{Line: 2})

	require.Equal(t, 4, f.buf.Cursor())
	require.Equal(t, TextPanel, f.app.focused)
}

func TestExportKey_WritesHighlightedLines(t *testing.T) {
	f := newFixture(t, "ok\nERROR disk")
	f.engine.Commands.HighlightUsingRegex.Execute("ERROR")
	require.NoError(t, f.fs.MkdirAll("/out", 0755))

	f.app.Update(key("E"))
	require.True(t, f.app.exporter.IsVisible())

	// Replace the default destination
	f.app.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	f.app.Update(key("/out/x"))
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})

	data, err := afero.ReadFile(f.fs, "/out/x/a.txt")
	require.NoError(t, err)
	require.Equal(t, "2:ERROR disk\n", string(data))
	require.Equal(t, "Exported 1 highlighted lines", f.app.status.Text())
}
