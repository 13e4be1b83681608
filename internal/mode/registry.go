// Package mode holds the two global matching toggles that parameterize
// patterns built from user input.
package mode

import (
	"sync"

	"github.com/cheerioskun/textmarker/internal/pubsub"
	"github.com/cheerioskun/textmarker/internal/utils"
)

const (
	EventInitialised            pubsub.EventType = "mode_initialised"
	EventCaseSensitivityToggled pubsub.EventType = "case_sensitivity_toggled"
	EventWholeMatchToggled      pubsub.EventType = "whole_match_toggled"
)

// Mode is a snapshot of the matching toggles.
type Mode struct {
	IgnoreCase bool
	WholeMatch bool
}

// Registry owns the matching mode. Changes only affect patterns built after
// them; existing decorations keep their flags.
type Registry struct {
	mu     sync.Mutex
	mode   Mode
	broker *pubsub.Broker[Mode]
	ready  bool
}

// NewRegistry creates a registry starting at initial and broadcasting on broker.
func NewRegistry(initial Mode, broker *pubsub.Broker[Mode]) *Registry {
	return &Registry{
		mode:   initial,
		broker: broker,
	}
}

// Mode returns the current toggles.
func (r *Registry) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// Ready broadcasts the full mode once so late subscribers can initialise.
// Later calls are ignored.
func (r *Registry) Ready() {
	r.mu.Lock()
	if r.ready {
		r.mu.Unlock()
		return
	}
	r.ready = true
	snapshot := r.mode
	r.mu.Unlock()

	r.broker.Publish(EventInitialised, snapshot)
}

// ToggleCaseSensitivity flips IgnoreCase and broadcasts the new mode.
func (r *Registry) ToggleCaseSensitivity() Mode {
	r.mu.Lock()
	r.mode.IgnoreCase = !r.mode.IgnoreCase
	snapshot := r.mode
	r.mu.Unlock()

	utils.Debug(utils.CatMode, "toggled case sensitivity", "ignoreCase", snapshot.IgnoreCase)
	r.broker.Publish(EventCaseSensitivityToggled, snapshot)
	return snapshot
}

// ToggleWholeMatch flips WholeMatch and broadcasts the new mode.
func (r *Registry) ToggleWholeMatch() Mode {
	r.mu.Lock()
	r.mode.WholeMatch = !r.mode.WholeMatch
	snapshot := r.mode
	r.mu.Unlock()

	utils.Debug(utils.CatMode, "toggled whole match", "wholeMatch", snapshot.WholeMatch)
	r.broker.Publish(EventWholeMatchToggled, snapshot)
	return snapshot
}
