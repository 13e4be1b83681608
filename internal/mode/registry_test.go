package mode

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cheerioskun/textmarker/internal/pubsub"
)

func newTestRegistry(t *testing.T, initial Mode) (*Registry, <-chan pubsub.Event[Mode]) {
	t.Helper()
	broker := pubsub.NewBroker[Mode]()
	t.Cleanup(broker.Close)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewRegistry(initial, broker), broker.Subscribe(ctx)
}

func next(t *testing.T, ch <-chan pubsub.Event[Mode]) pubsub.Event[Mode] {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event published")
		return pubsub.Event[Mode]{}
	}
}

func TestToggleCaseSensitivity(t *testing.T) {
	registry, events := newTestRegistry(t, Mode{})

	got := registry.ToggleCaseSensitivity()

	require.True(t, got.IgnoreCase)
	require.Equal(t, got, registry.Mode())
	ev := next(t, events)
	require.Equal(t, EventCaseSensitivityToggled, ev.Type)
	require.True(t, ev.Payload.IgnoreCase)

	registry.ToggleCaseSensitivity()
	require.False(t, registry.Mode().IgnoreCase)
}

func TestToggleWholeMatch(t *testing.T) {
	registry, events := newTestRegistry(t, Mode{IgnoreCase: true})

	got := registry.ToggleWholeMatch()

	require.Equal(t, Mode{IgnoreCase: true, WholeMatch: true}, got)
	ev := next(t, events)
	require.Equal(t, EventWholeMatchToggled, ev.Type)
	require.Equal(t, got, ev.Payload)
}

func TestReady_BroadcastsOnce(t *testing.T) {
	registry, events := newTestRegistry(t, Mode{WholeMatch: true})

	registry.Ready()
	registry.Ready()

	ev := next(t, events)
	require.Equal(t, EventInitialised, ev.Type)
	require.Equal(t, Mode{WholeMatch: true}, ev.Payload)
	select {
	case ev := <-events:
		t.Fatalf("unexpected second event %v", ev)
	default:
	}
}
