// Package operator coordinates decoration registry mutations with what is
// painted on the open buffers.
//
// Every mutation is a two step sequence (registry change, then visual
// change) and runs under the operator's lock, so an add can never interleave
// with a remove of the same decoration.
package operator

import (
	"sync"

	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/decoration"
	"github.com/cheerioskun/textmarker/internal/location"
	"github.com/cheerioskun/textmarker/internal/pattern"
	"github.com/cheerioskun/textmarker/internal/utils"
)

// BufferSet yields the currently open buffers.
type BufferSet interface {
	Buffers() []buffer.Buffer
}

// Operator is the orchestration surface of the decoration engine.
type Operator struct {
	mu          sync.Mutex
	buffers     BufferSet
	decorations *decoration.Registry
	locations   *location.Registry
	decorator   Decorator
}

// New creates an operator.
func New(buffers BufferSet, decorations *decoration.Registry, locations *location.Registry, decorator Decorator) *Operator {
	return &Operator{
		buffers:     buffers,
		decorations: decorations,
		locations:   locations,
		decorator:   decorator,
	}
}

// AddDecoration issues p and paints it on every open buffer. It returns
// false, changing nothing, when p is already highlighted.
func (o *Operator) AddDecoration(p pattern.Pattern) (*decoration.Decoration, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	d, ok := o.decorations.Issue(p)
	if !ok {
		return nil, false
	}

	o.decorator.Decorate(o.buffers.Buffers(), []*decoration.Decoration{d})
	utils.Debug(utils.CatOperator, "decoration added", "id", d.ID, "pattern", p.String())
	return d, true
}

// RemoveDecoration revokes the decoration and clears it from every open
// buffer. It returns false when id is unknown.
func (o *Operator) RemoveDecoration(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	d, ok := o.decorations.InquireByID(id)
	if !ok {
		return false
	}

	o.decorations.Revoke(id)
	o.locations.Unregister(id)
	o.decorator.Undecorate(o.buffers.Buffers(), []*decoration.Decoration{d})
	utils.Debug(utils.CatOperator, "decoration removed", "id", id)
	return true
}

// UpdateDecorationPattern swaps the pattern of d for p, clearing the old
// highlight before painting the new one. It returns false, changing nothing,
// when d is no longer live or p is already highlighted by another decoration.
func (o *Operator) UpdateDecorationPattern(d *decoration.Decoration, p pattern.Pattern) (*decoration.Decoration, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	old, ok := o.decorations.InquireByID(d.ID)
	if !ok {
		return nil, false
	}
	updated, ok := o.decorations.UpdatePattern(d.ID, p)
	if !ok {
		return nil, false
	}

	buffers := o.buffers.Buffers()
	o.locations.Unregister(d.ID)
	o.decorator.Undecorate(buffers, []*decoration.Decoration{old})
	o.decorator.Decorate(buffers, []*decoration.Decoration{updated})
	utils.Debug(utils.CatOperator, "decoration updated", "id", d.ID, "from", old.Pattern.String(), "to", p.String())
	return updated, true
}

// RefreshDecorations paints every live decoration on every open buffer,
// re-evaluating patterns only for buffers whose text changed. Safe to call
// as often as the caller likes.
func (o *Operator) RefreshDecorations() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.decorator.Decorate(o.buffers.Buffers(), o.decorations.RetrieveAll())
}

// RefreshDecoration repaints one decoration. It returns false when id is unknown.
func (o *Operator) RefreshDecoration(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	d, ok := o.decorations.InquireByID(id)
	if !ok {
		return false
	}
	o.decorator.Decorate(o.buffers.Buffers(), []*decoration.Decoration{d})
	return true
}

// RemoveAllDecorations revokes every live decoration and clears all of them
// from every open buffer. It returns how many were removed.
func (o *Operator) RemoveAllDecorations() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	all := o.decorations.RetrieveAll()
	for _, d := range all {
		o.decorations.Revoke(d.ID)
		o.locations.Unregister(d.ID)
	}
	o.decorator.Undecorate(o.buffers.Buffers(), all)

	utils.Debug(utils.CatOperator, "all decorations removed", "count", len(all))
	return len(all)
}

// DecorationAt returns the live decoration covering pos in the buffer, as
// of the last time decorations were applied to it.
func (o *Operator) DecorationAt(bufferID string, pos int) (*decoration.Decoration, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id, ok := o.locations.Lookup(bufferID, pos)
	if !ok {
		return nil, false
	}
	return o.decorations.InquireByID(id)
}

// Decoration returns the live decoration with the given id.
func (o *Operator) Decoration(id string) (*decoration.Decoration, bool) {
	return o.decorations.InquireByID(id)
}

// Decorations returns the live decorations in insertion order.
func (o *Operator) Decorations() []*decoration.Decoration {
	return o.decorations.RetrieveAll()
}

// ForgetBuffer drops cached locations of a closed buffer.
func (o *Operator) ForgetBuffer(bufferID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.locations.PruneBuffer(bufferID)
}
