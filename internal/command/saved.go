package command

import (
	"fmt"

	"github.com/cheerioskun/textmarker/internal/config"
	"github.com/cheerioskun/textmarker/internal/operator"
	"github.com/cheerioskun/textmarker/internal/utils"
)

// SaveAllHighlights writes the live highlights to a config target.
type SaveAllHighlights struct {
	op    *operator.Operator
	store HighlightStore
}

// NewSaveAllHighlights creates the save command.
func NewSaveAllHighlights(op *operator.Operator, store HighlightStore) *SaveAllHighlights {
	return &SaveAllHighlights{op: op, store: store}
}

// Execute saves every live decoration to target and returns how many were saved.
func (c *SaveAllHighlights) Execute(target config.Target) (int, error) {
	highlights := config.ExportHighlights(c.op.Decorations())
	if err := c.store.Save(target, highlights); err != nil {
		return 0, fmt.Errorf("saving highlights to %s config: %w", target, err)
	}
	return len(highlights), nil
}

// SavedHighlightsRestorer re-issues saved highlights once the engine is ready.
type SavedHighlightsRestorer struct {
	op    *operator.Operator
	store HighlightStore
}

// NewSavedHighlightsRestorer creates the restorer.
func NewSavedHighlightsRestorer(op *operator.Operator, store HighlightStore) *SavedHighlightsRestorer {
	return &SavedHighlightsRestorer{op: op, store: store}
}

// Restore adds every saved highlight and returns how many were added.
// Entries with an unknown type and patterns already live are skipped.
func (r *SavedHighlightsRestorer) Restore() (int, error) {
	saved, err := r.store.Effective()
	if err != nil {
		return 0, fmt.Errorf("loading saved highlights: %w", err)
	}

	added := 0
	for _, h := range saved {
		p, err := config.ImportPattern(h)
		if err != nil {
			utils.Warning(utils.CatConfig, "skipping saved highlight", "error", err)
			continue
		}
		if _, ok := r.op.AddDecoration(p); ok {
			added++
		}
	}

	utils.Info(utils.CatConfig, "restored saved highlights", "saved", len(saved), "added", added)
	return added, nil
}
