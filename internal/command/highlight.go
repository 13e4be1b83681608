package command

import (
	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/mode"
	"github.com/cheerioskun/textmarker/internal/operator"
	"github.com/cheerioskun/textmarker/internal/pattern"
	"github.com/cheerioskun/textmarker/internal/utils"
)

// ToggleHighlight highlights the selected text, or removes the highlight
// the selection starts in.
type ToggleHighlight struct {
	op    *operator.Operator
	modes *mode.Registry
}

// NewToggleHighlight creates the toggle command.
func NewToggleHighlight(op *operator.Operator, modes *mode.Registry) *ToggleHighlight {
	return &ToggleHighlight{op: op, modes: modes}
}

// Execute toggles the highlight for buf's selection. An empty selection does nothing.
func (c *ToggleHighlight) Execute(buf buffer.Buffer) Result {
	sel := buf.Selection()
	if sel.IsEmpty() {
		return noop()
	}

	if d, ok := c.op.DecorationAt(buf.ID(), sel.Start); ok {
		if !c.op.RemoveDecoration(d.ID) {
			return noop()
		}
		utils.Debug(utils.CatOperator, "toggle removed highlight", "buffer", buf.ID(), "id", d.ID)
		return Result{Action: Removed, Decoration: d}
	}

	m := c.modes.Mode()
	p := pattern.NewString(buffer.SelectedText(buf), m.IgnoreCase, m.WholeMatch)
	d, ok := c.op.AddDecoration(p)
	if !ok {
		return noop()
	}
	utils.Debug(utils.CatOperator, "toggle added highlight", "buffer", buf.ID(), "id", d.ID)
	return Result{Action: Added, Decoration: d}
}

// HighlightUsingRegex adds a regular expression highlight built with the
// current matching mode.
type HighlightUsingRegex struct {
	op    *operator.Operator
	modes *mode.Registry
}

// NewHighlightUsingRegex creates the regex highlight command.
func NewHighlightUsingRegex(op *operator.Operator, modes *mode.Registry) *HighlightUsingRegex {
	return &HighlightUsingRegex{op: op, modes: modes}
}

// Execute highlights expression. An empty expression does nothing.
func (c *HighlightUsingRegex) Execute(expression string) Result {
	if expression == "" {
		return noop()
	}
	m := c.modes.Mode()
	d, ok := c.op.AddDecoration(pattern.NewRegex(expression, m.IgnoreCase, m.WholeMatch))
	if !ok {
		return noop()
	}
	return Result{Action: Added, Decoration: d}
}

// Unhighlight removes a chosen highlight.
type Unhighlight struct {
	op *operator.Operator
}

// NewUnhighlight creates the unhighlight command.
func NewUnhighlight(op *operator.Operator) *Unhighlight {
	return &Unhighlight{op: op}
}

// Execute removes the decoration with the given id.
func (c *Unhighlight) Execute(id string) Result {
	d, ok := c.op.Decoration(id)
	if !ok || !c.op.RemoveDecoration(id) {
		return noop()
	}
	return Result{Action: Removed, Decoration: d}
}

// UpdateHighlight rewrites the phrase of the highlight under the cursor.
type UpdateHighlight struct {
	op *operator.Operator
}

// NewUpdateHighlight creates the update command.
func NewUpdateHighlight(op *operator.Operator) *UpdateHighlight {
	return &UpdateHighlight{op: op}
}

// Execute replaces the phrase of the decoration covering the start of buf's
// selection, keeping its kind and flags.
func (c *UpdateHighlight) Execute(buf buffer.Buffer, phrase string) Result {
	if phrase == "" {
		return noop()
	}
	d, ok := c.op.DecorationAt(buf.ID(), buf.Selection().Start)
	if !ok {
		return noop()
	}
	return c.ExecuteFor(d.ID, phrase)
}

// ExecuteFor replaces the phrase of decoration id.
func (c *UpdateHighlight) ExecuteFor(id, phrase string) Result {
	if phrase == "" {
		return noop()
	}
	return update(c.op, id, func(p pattern.Pattern) pattern.Pattern {
		return p.WithPhrase(phrase)
	})
}

// RefreshHighlight re-evaluates one highlight against the current text of
// every open buffer.
type RefreshHighlight struct {
	op *operator.Operator
}

// NewRefreshHighlight creates the refresh command.
func NewRefreshHighlight(op *operator.Operator) *RefreshHighlight {
	return &RefreshHighlight{op: op}
}

// Execute repaints the decoration with the given id.
func (c *RefreshHighlight) Execute(id string) Result {
	d, ok := c.op.Decoration(id)
	if !ok || !c.op.RefreshDecoration(id) {
		return noop()
	}
	return Result{Action: Refreshed, Decoration: d}
}

// RemoveAllHighlights clears every highlight.
type RemoveAllHighlights struct {
	op *operator.Operator
}

// NewRemoveAllHighlights creates the clear-all command.
func NewRemoveAllHighlights(op *operator.Operator) *RemoveAllHighlights {
	return &RemoveAllHighlights{op: op}
}

// Execute removes every decoration and returns how many there were.
func (c *RemoveAllHighlights) Execute() int {
	return c.op.RemoveAllDecorations()
}

// update applies change to the pattern of decoration id.
func update(op *operator.Operator, id string, change func(pattern.Pattern) pattern.Pattern) Result {
	d, ok := op.Decoration(id)
	if !ok {
		return noop()
	}
	updated, ok := op.UpdateDecorationPattern(d, change(d.Pattern))
	if !ok {
		return noop()
	}
	return Result{Action: Updated, Decoration: updated}
}
