// Package command implements the user-facing highlight commands on top of
// the decoration operator. Commands never fail for the documented no-op
// cases (empty selection, duplicate pattern, unknown id); they report what
// happened through a Result instead.
package command

import (
	"github.com/cheerioskun/textmarker/internal/config"
	"github.com/cheerioskun/textmarker/internal/decoration"
	"github.com/cheerioskun/textmarker/internal/mode"
	"github.com/cheerioskun/textmarker/internal/operator"
)

// Action says what a command did.
type Action int

const (
	NoOp Action = iota
	Added
	Removed
	Updated
	Refreshed
)

// String returns a human-readable representation of the action
func (a Action) String() string {
	switch a {
	case NoOp:
		return "none"
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Updated:
		return "updated"
	case Refreshed:
		return "refreshed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a highlight command.
type Result struct {
	Action     Action
	Decoration *decoration.Decoration
}

func noop() Result {
	return Result{Action: NoOp}
}

// HighlightStore persists and restores saved highlights.
type HighlightStore interface {
	Save(target config.Target, highlights []config.SavedHighlight) error
	Effective() ([]config.SavedHighlight, error)
}

// Set bundles every command over one engine.
type Set struct {
	Toggle                 *ToggleHighlight
	HighlightUsingRegex    *HighlightUsingRegex
	Unhighlight            *Unhighlight
	Update                 *UpdateHighlight
	Refresh                *RefreshHighlight
	ToggleCaseSensitivity  *ToggleCaseSensitivity
	ToggleWholeMatch       *ToggleWholeMatch
	CaseSensitivityMode    *ToggleCaseSensitivityMode
	WholeMatchMode         *ToggleWholeMatchMode
	RemoveAll              *RemoveAllHighlights
	SaveAll                *SaveAllHighlights
	SavedHighlightRestorer *SavedHighlightsRestorer
}

// NewSet wires every command to op, modes and store.
func NewSet(op *operator.Operator, modes *mode.Registry, store HighlightStore) *Set {
	return &Set{
		Toggle:                 NewToggleHighlight(op, modes),
		HighlightUsingRegex:    NewHighlightUsingRegex(op, modes),
		Unhighlight:            NewUnhighlight(op),
		Update:                 NewUpdateHighlight(op),
		Refresh:                NewRefreshHighlight(op),
		ToggleCaseSensitivity:  NewToggleCaseSensitivity(op),
		ToggleWholeMatch:       NewToggleWholeMatch(op),
		CaseSensitivityMode:    NewToggleCaseSensitivityMode(modes),
		WholeMatchMode:         NewToggleWholeMatchMode(modes),
		RemoveAll:              NewRemoveAllHighlights(op),
		SaveAll:                NewSaveAllHighlights(op, store),
		SavedHighlightRestorer: NewSavedHighlightsRestorer(op, store),
	}
}
