package command

import (
	"github.com/cheerioskun/textmarker/internal/mode"
	"github.com/cheerioskun/textmarker/internal/operator"
	"github.com/cheerioskun/textmarker/internal/pattern"
)

// ToggleCaseSensitivity flips IgnoreCase on one highlight.
type ToggleCaseSensitivity struct {
	op *operator.Operator
}

// NewToggleCaseSensitivity creates the per-highlight case toggle.
func NewToggleCaseSensitivity(op *operator.Operator) *ToggleCaseSensitivity {
	return &ToggleCaseSensitivity{op: op}
}

// Execute toggles case sensitivity of decoration id.
func (c *ToggleCaseSensitivity) Execute(id string) Result {
	return update(c.op, id, func(p pattern.Pattern) pattern.Pattern {
		return p.WithIgnoreCase(!p.IgnoreCase)
	})
}

// ToggleWholeMatch flips WholeMatch on one highlight.
type ToggleWholeMatch struct {
	op *operator.Operator
}

// NewToggleWholeMatch creates the per-highlight whole match toggle.
func NewToggleWholeMatch(op *operator.Operator) *ToggleWholeMatch {
	return &ToggleWholeMatch{op: op}
}

// Execute toggles whole matching of decoration id.
func (c *ToggleWholeMatch) Execute(id string) Result {
	return update(c.op, id, func(p pattern.Pattern) pattern.Pattern {
		return p.WithWholeMatch(!p.WholeMatch)
	})
}

// ToggleCaseSensitivityMode flips the global case mode for new highlights.
type ToggleCaseSensitivityMode struct {
	modes *mode.Registry
}

// NewToggleCaseSensitivityMode creates the global case mode toggle.
func NewToggleCaseSensitivityMode(modes *mode.Registry) *ToggleCaseSensitivityMode {
	return &ToggleCaseSensitivityMode{modes: modes}
}

// Execute flips the mode and returns the new one.
func (c *ToggleCaseSensitivityMode) Execute() mode.Mode {
	return c.modes.ToggleCaseSensitivity()
}

// ToggleWholeMatchMode flips the global whole match mode for new highlights.
type ToggleWholeMatchMode struct {
	modes *mode.Registry
}

// NewToggleWholeMatchMode creates the global whole match mode toggle.
func NewToggleWholeMatchMode(modes *mode.Registry) *ToggleWholeMatchMode {
	return &ToggleWholeMatchMode{modes: modes}
}

// Execute flips the mode and returns the new one.
func (c *ToggleWholeMatchMode) Execute() mode.Mode {
	return c.modes.ToggleWholeMatch()
}
