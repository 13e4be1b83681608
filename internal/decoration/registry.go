// Package decoration owns the set of live highlight rules.
//
// The Registry is the only place a Decoration is created or mutated. It
// guarantees that no two live decorations carry equal patterns; callers
// learn about duplicates and unknown ids through the boolean of the
// (value, ok) results rather than through errors.
package decoration

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cheerioskun/textmarker/internal/pattern"
	"github.com/cheerioskun/textmarker/internal/style"
	"github.com/cheerioskun/textmarker/internal/utils"
)

// Decoration is an identified highlight rule.
type Decoration struct {
	ID      string
	Colour  string
	Pattern pattern.Pattern
	Style   *style.Handle
}

// Registry stores live decorations in insertion order.
type Registry struct {
	mu      sync.Mutex
	styles  style.Provider
	palette []string
	order   []string
	byID    map[string]*Decoration
	newID   func() string
}

// Option configures a Registry.
type Option func(*Registry)

// WithPalette overrides the colour rotation.
func WithPalette(palette []string) Option {
	return func(r *Registry) {
		if len(palette) > 0 {
			r.palette = palette
		}
	}
}

// WithIDGenerator overrides identifier allocation. Intended for tests.
func WithIDGenerator(gen func() string) Option {
	return func(r *Registry) {
		r.newID = gen
	}
}

// NewRegistry creates an empty registry resolving styles through styles.
func NewRegistry(styles style.Provider, opts ...Option) *Registry {
	r := &Registry{
		styles:  styles,
		palette: style.DefaultPalette,
		byID:    make(map[string]*Decoration),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Issue registers p and returns the new decoration. It returns false when an
// equal pattern is already live.
func (r *Registry) Issue(p pattern.Pattern) (*Decoration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findLocked(p) != nil {
		utils.Debug(utils.CatRegistry, "pattern already registered", "pattern", p.String())
		return nil, false
	}

	id := r.newID()
	for r.byID[id] != nil {
		id = r.newID()
	}

	colour := r.nextColourLocked()
	handle := r.styles.ProvideFor(colour)
	r.styles.Remember(id, handle)

	d := &Decoration{
		ID:      id,
		Colour:  colour,
		Pattern: p,
		Style:   handle,
	}
	r.byID[id] = d
	r.order = append(r.order, id)

	utils.Debug(utils.CatRegistry, "issued decoration", "id", id, "colour", colour, "pattern", p.String())
	return d.clone(), true
}

// nextColourLocked picks the palette colour held by the fewest live
// decorations, earliest in the palette on ties. A free colour always wins.
func (r *Registry) nextColourLocked() string {
	used := make(map[string]int, len(r.palette))
	for _, id := range r.order {
		used[r.byID[id].Colour]++
	}

	best := r.palette[0]
	for _, colour := range r.palette[1:] {
		if used[colour] < used[best] {
			best = colour
		}
	}
	return best
}

// InquireByID returns the decoration with the given id.
func (r *Registry) InquireByID(id string) (*Decoration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return d.clone(), true
}

// Find returns the live decoration whose pattern equals p.
func (r *Registry) Find(p pattern.Pattern) (*Decoration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.findLocked(p)
	if d == nil {
		return nil, false
	}
	return d.clone(), true
}

// Revoke removes the decoration. Unknown ids are ignored.
func (r *Registry) Revoke(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return
	}

	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.styles.Forget(id)

	utils.Debug(utils.CatRegistry, "revoked decoration", "id", id)
}

// UpdatePattern replaces the pattern of a live decoration, keeping its id,
// colour and style. It returns false when id is unknown or when another
// live decoration already carries p.
func (r *Registry) UpdatePattern(id string, p pattern.Pattern) (*Decoration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	if other := r.findLocked(p); other != nil && other.ID != id {
		utils.Debug(utils.CatRegistry, "update would duplicate a pattern", "id", id, "other", other.ID)
		return nil, false
	}

	d.Pattern = p
	utils.Debug(utils.CatRegistry, "updated decoration", "id", id, "pattern", p.String())
	return d.clone(), true
}

// RetrieveAll returns every live decoration in insertion order.
func (r *Registry) RetrieveAll() []*Decoration {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*Decoration, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.byID[id].clone())
	}
	return all
}

// Len returns the number of live decorations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

func (r *Registry) findLocked(p pattern.Pattern) *Decoration {
	for _, id := range r.order {
		if d := r.byID[id]; d.Pattern.Equal(p) {
			return d
		}
	}
	return nil
}

// clone hands callers a snapshot so registry state only changes through Registry methods.
func (d *Decoration) clone() *Decoration {
	c := *d
	return &c
}
