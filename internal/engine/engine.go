// Package engine wires the decoration registries, operator, matching mode
// and commands over one set of buffers.
package engine

import (
	"github.com/cheerioskun/textmarker/internal/command"
	"github.com/cheerioskun/textmarker/internal/config"
	"github.com/cheerioskun/textmarker/internal/decoration"
	"github.com/cheerioskun/textmarker/internal/location"
	"github.com/cheerioskun/textmarker/internal/mode"
	"github.com/cheerioskun/textmarker/internal/operator"
	"github.com/cheerioskun/textmarker/internal/pubsub"
	"github.com/cheerioskun/textmarker/internal/style"
)

// Engine holds every long-lived component of a session.
type Engine struct {
	Styles      *style.Registry
	Decorations *decoration.Registry
	Locations   *location.Registry
	Operator    *operator.Operator
	ModeBroker  *pubsub.Broker[mode.Mode]
	Modes       *mode.Registry
	Commands    *command.Set
}

// New builds an engine decorating buffers and persisting through store.
func New(cfg config.Config, buffers operator.BufferSet, store command.HighlightStore) *Engine {
	styles := style.NewRegistry()
	decorations := decoration.NewRegistry(styles, decoration.WithPalette(cfg.Palette))
	locations := location.NewRegistry()
	op := operator.New(buffers, decorations, locations, operator.NewTextDecorator(decorations, locations))

	broker := pubsub.NewBroker[mode.Mode]()
	modes := mode.NewRegistry(mode.Mode{
		IgnoreCase: cfg.Matching.IgnoreCase,
		WholeMatch: cfg.Matching.WholeMatch,
	}, broker)

	return &Engine{
		Styles:      styles,
		Decorations: decorations,
		Locations:   locations,
		Operator:    op,
		ModeBroker:  broker,
		Modes:       modes,
		Commands:    command.NewSet(op, modes, store),
	}
}

// Close shuts down the mode broker.
func (e *Engine) Close() {
	e.ModeBroker.Close()
}
