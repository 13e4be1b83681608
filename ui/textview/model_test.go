package textview

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/pattern"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newFocusedModel(t *testing.T, text string) (*Model, *buffer.FileBuffer) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.txt", []byte(text), 0644))
	buf, err := buffer.Open(fs, "/a.txt")
	require.NoError(t, err)

	m := NewModel()
	m.SetSize(40, 10)
	m.SetBuffer(buf)
	m.Focus()
	return m, buf
}

func TestUpdate_SelectsWithV(t *testing.T) {
	m, buf := newFocusedModel(t, "abc SELECTED def")
	buf.MoveCursor(4)

	m.Update(key("v"))
	for i := 0; i < 8; i++ {
		m.Update(key("right"))
	}

	require.Equal(t, pattern.Range{Start: 4, End: 12}, buf.Selection())
	require.Equal(t, "SELECTED", buffer.SelectedText(buf))
	require.Contains(t, m.View(), "8 selected")

	m.Update(key("esc"))
	require.False(t, buf.Selecting())
}

func TestUpdate_IgnoredWhenBlurred(t *testing.T) {
	m, buf := newFocusedModel(t, "one\ntwo")
	m.Blur()

	m.Update(key("down"))

	require.Zero(t, buf.Cursor())
}

func TestUpdate_MovesLines(t *testing.T) {
	m, buf := newFocusedModel(t, "one\ntwo")

	m.Update(key("down"))

	line, _ := buf.Position()
	require.Equal(t, 1, line)
	require.Contains(t, m.View(), "Ln 2, Col 1")
}
