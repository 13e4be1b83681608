package filelist

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/pattern"
	"github.com/cheerioskun/textmarker/internal/style"
)

func openAll(t *testing.T, paths ...string) *buffer.Set {
	t.Helper()
	fs := afero.NewMemMapFs()
	set := buffer.NewSet(fs)
	for _, p := range paths {
		require.NoError(t, afero.WriteFile(fs, p, []byte("content of "+p), 0644))
		_, err := set.Open(p)
		require.NoError(t, err)
	}
	return set
}

func TestSetBuffers_CountsHighlights(t *testing.T) {
	set := openAll(t, "/a.log", "/b.log")
	b, _ := set.Get("/b.log")
	b.SetStyledRanges(&style.Handle{Colour: "1"}, []pattern.Range{{Start: 0, End: 2}, {Start: 4, End: 6}})

	m := NewModel()
	m.SetBuffers(set.Files(), set.ActiveIndex())

	entries := m.Entries()
	require.Len(t, entries, 2)
	require.Zero(t, entries[0].Highlights)
	require.Equal(t, 2, entries[1].Highlights)
	require.Contains(t, m.View(), "2 highlighted spans")
}

func TestUpdate_EnterActivatesCursorEntry(t *testing.T) {
	set := openAll(t, "/a.log", "/b.log", "/c.log")
	m := NewModel()
	m.SetBuffers(set.Files(), 0)
	m.Focus()

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	require.Equal(t, ActivateMsg{ID: "/c.log"}, cmd())
}

func TestUpdate_IgnoresKeysWhenBlurred(t *testing.T) {
	set := openAll(t, "/a.log")
	m := NewModel()
	m.SetBuffers(set.Files(), 0)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Nil(t, cmd)
}
