package status

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/cheerioskun/textmarker/internal/messages"
	"github.com/cheerioskun/textmarker/internal/mode"
	"github.com/cheerioskun/textmarker/internal/pubsub"
)

func TestModeEventsAreApplied(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	broker := pubsub.NewBroker[mode.Mode]()
	t.Cleanup(broker.Close)
	modes := mode.NewRegistry(mode.Mode{}, broker)

	m := NewModel(ctx, modes.Mode(), broker)
	cmd := m.Init()
	require.NotNil(t, cmd)

	modes.Ready()
	m, cmd = m.Update(cmd())
	require.NotNil(t, cmd)
	require.Equal(t, mode.Mode{}, m.Mode())

	modes.ToggleCaseSensitivity()
	m, _ = m.Update(cmd())
	require.True(t, m.Mode().IgnoreCase)
}

func TestStatusMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	broker := pubsub.NewBroker[mode.Mode]()
	t.Cleanup(broker.Close)

	m := NewModel(ctx, mode.Mode{WholeMatch: true}, broker)
	m.SetHighlightCount(2)

	m.Update(messages.StatusMsg{Text: "Saved 2 highlights"})
	require.Equal(t, "Saved 2 highlights", m.Text())
	view := ansi.Strip(m.View())
	require.Contains(t, view, "Highlights: 2")
	require.Contains(t, view, "Saved 2 highlights")

	m.Update(messages.StatusMsg{Text: "Save failed", Err: errors.New("disk full")})
	require.Equal(t, "Save failed: disk full", m.Text())
}
