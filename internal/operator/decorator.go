package operator

import (
	"sort"

	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/decoration"
	"github.com/cheerioskun/textmarker/internal/location"
	"github.com/cheerioskun/textmarker/internal/pattern"
	"github.com/cheerioskun/textmarker/internal/style"
)

// Decorator paints and clears decorations on buffers.
type Decorator interface {
	Decorate(buffers []buffer.Buffer, decorations []*decoration.Decoration)
	Undecorate(buffers []buffer.Buffer, decorations []*decoration.Decoration)
}

// Lister returns the live decorations.
type Lister interface {
	RetrieveAll() []*decoration.Decoration
}

// TextDecorator evaluates patterns against buffer text, records the ranges
// in the location registry and paints them.
//
// A style handle is shared by every decoration of the same colour, and a
// buffer only knows one range set per handle, so painting or clearing a
// handle always re-sets the union of the live decorations that share it.
type TextDecorator struct {
	live      Lister
	locations *location.Registry
}

// NewTextDecorator creates a decorator over the live decorations and location registry.
func NewTextDecorator(live Lister, locations *location.Registry) *TextDecorator {
	return &TextDecorator{
		live:      live,
		locations: locations,
	}
}

// Decorate paints decorations on every buffer. Ranges are re-evaluated only
// when the buffer text changed since they were last recorded.
func (d *TextDecorator) Decorate(buffers []buffer.Buffer, decorations []*decoration.Decoration) {
	if len(decorations) == 0 {
		return
	}
	live := d.live.RetrieveAll()

	for _, buf := range buffers {
		text := buf.Text()
		digest := location.Digest(text)

		touched := make(map[*style.Handle]bool)
		for _, deco := range decorations {
			d.current(buf.ID(), text, digest, deco)
			touched[deco.Style] = true
		}

		for _, h := range orderedHandles(touched, decorations) {
			d.paint(buf, text, digest, h, sharers(live, h, nil))
		}
	}
}

// Undecorate clears decorations from every buffer, repainting whatever the
// remaining live decorations of the same colour still cover.
func (d *TextDecorator) Undecorate(buffers []buffer.Buffer, decorations []*decoration.Decoration) {
	if len(decorations) == 0 {
		return
	}
	live := d.live.RetrieveAll()

	removing := make(map[string]bool, len(decorations))
	touched := make(map[*style.Handle]bool)
	for _, deco := range decorations {
		removing[deco.ID] = true
		touched[deco.Style] = true
	}
	handles := orderedHandles(touched, decorations)

	for _, buf := range buffers {
		text := buf.Text()
		digest := location.Digest(text)
		for _, h := range handles {
			remaining := sharers(live, h, removing)
			if len(remaining) == 0 {
				buf.ClearStyle(h)
				continue
			}
			d.paint(buf, text, digest, h, remaining)
		}
	}
}

// paint sets the union of the owners' ranges for h. Owners whose recorded
// ranges predate the current text are re-evaluated first.
func (d *TextDecorator) paint(buf buffer.Buffer, text string, digest uint64, h *style.Handle, owners []*decoration.Decoration) {
	var ranges []pattern.Range
	for _, owner := range owners {
		ranges = append(ranges, d.current(buf.ID(), text, digest, owner)...)
	}
	buf.SetStyledRanges(h, mergeRanges(ranges))
}

// current returns the ranges of deco in text, matching only when the
// recorded ranges were computed from different text.
func (d *TextDecorator) current(bufferID, text string, digest uint64, deco *decoration.Decoration) []pattern.Range {
	if ranges, ok := d.locations.Current(bufferID, deco.ID, digest); ok {
		return ranges
	}
	ranges := deco.Pattern.Match(text)
	d.locations.Track(bufferID, deco.ID, digest, ranges)
	return ranges
}

// sharers returns the live decorations painted with h, minus excluded ids.
func sharers(live []*decoration.Decoration, h *style.Handle, excluded map[string]bool) []*decoration.Decoration {
	var out []*decoration.Decoration
	for _, deco := range live {
		if deco.Style == h && !excluded[deco.ID] {
			out = append(out, deco)
		}
	}
	return out
}

// orderedHandles lists the touched handles in the order decorations name them.
func orderedHandles(touched map[*style.Handle]bool, decorations []*decoration.Decoration) []*style.Handle {
	handles := make([]*style.Handle, 0, len(touched))
	seen := make(map[*style.Handle]bool, len(touched))
	for _, deco := range decorations {
		if touched[deco.Style] && !seen[deco.Style] {
			seen[deco.Style] = true
			handles = append(handles, deco.Style)
		}
	}
	return handles
}

// mergeRanges sorts ranges and joins overlapping ones.
func mergeRanges(ranges []pattern.Range) []pattern.Range {
	if len(ranges) == 0 {
		return nil
	}
	sorted := append([]pattern.Range(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := []pattern.Range{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.Start < last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
