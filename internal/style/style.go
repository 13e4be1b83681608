// Package style hands out the renderable style handles used to paint
// decorations. There is exactly one handle per colour; decorations sharing a
// colour share the handle.
package style

import (
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/cheerioskun/textmarker/internal/cachemanager"
)

// DefaultPalette is the colour rotation used for new decorations.
var DefaultPalette = []string{
	"178", // dark goldenrod
	"201", // magenta
	"28",  // dark green
	"202", // orange red
	"34",  // green
	"33",  // blue
	"130", // brown
	"93",  // purple
	"30",  // teal
	"160", // red
}

// Handle is a renderable style for one colour.
type Handle struct {
	Colour string
	Style  lipgloss.Style
}

// Render paints s with the handle's style.
func (h *Handle) Render(s string) string {
	return h.Style.Render(s)
}

// Provider maps colours to style handles.
type Provider interface {
	ProvideFor(colour string) *Handle
	Inquire(decorationID string) (*Handle, bool)
	Remember(decorationID string, h *Handle)
	Forget(decorationID string)
}

// Registry is the cached Provider implementation.
type Registry struct {
	mu       sync.Mutex
	handles  cachemanager.CacheManager[*Handle]
	assigned map[string]*Handle
}

// NewRegistry creates an empty style registry.
func NewRegistry() *Registry {
	return &Registry{
		handles:  cachemanager.NewInMemoryCacheManager[*Handle]("style-handles", cachemanager.NoExpiration, 0),
		assigned: make(map[string]*Handle),
	}
}

// ProvideFor returns the handle for colour, creating it on first use.
func (r *Registry) ProvideFor(colour string) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handles.Get(colour); ok {
		return h
	}

	h := &Handle{
		Colour: colour,
		Style: lipgloss.NewStyle().
			Background(lipgloss.Color(colour)).
			Foreground(lipgloss.Color("0")),
	}
	r.handles.Set(colour, h, cachemanager.NoExpiration)
	return h
}

// Remember records which handle paints a decoration.
func (r *Registry) Remember(decorationID string, h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assigned[decorationID] = h
}

// Forget drops the handle assignment of a decoration.
func (r *Registry) Forget(decorationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.assigned, decorationID)
}

// Inquire returns the handle that paints a decoration.
func (r *Registry) Inquire(decorationID string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.assigned[decorationID]
	return h, ok
}

// colours returns the colours that currently have a handle.
func (r *Registry) colours() []string {
	return r.handles.Keys()
}
