// Package location remembers where each decoration matched in each buffer
// when it was last applied, so "which highlight is under the cursor" is a
// lookup instead of a rescan of every pattern.
//
// Entries are only as fresh as the last application. Callers refresh them
// (by re-applying decorations) after a buffer's text changes; Digest lets a
// caller tell whether cached ranges still describe the current text.
package location

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/cheerioskun/textmarker/internal/pattern"
)

// Digest fingerprints buffer text.
func Digest(text string) uint64 {
	return xxhash.Sum64String(text)
}

type entry struct {
	ranges []pattern.Range
	digest uint64
	seq    uint64
}

// Registry maps (buffer, decoration) to matched ranges.
type Registry struct {
	mu      sync.RWMutex
	buffers map[string]map[string]entry
	seq     uint64
}

// NewRegistry creates an empty location registry.
func NewRegistry() *Registry {
	return &Registry{
		buffers: make(map[string]map[string]entry),
	}
}

// Register replaces the ranges recorded for decorationID in bufferID.
func (r *Registry) Register(bufferID, decorationID string, ranges []pattern.Range) {
	r.Track(bufferID, decorationID, 0, ranges)
}

// Track is Register plus the digest of the text the ranges were computed from.
func (r *Registry) Track(bufferID, decorationID string, digest uint64, ranges []pattern.Range) {
	r.mu.Lock()
	defer r.mu.Unlock()

	decorations, ok := r.buffers[bufferID]
	if !ok {
		decorations = make(map[string]entry)
		r.buffers[bufferID] = decorations
	}

	r.seq++
	decorations[decorationID] = entry{
		ranges: append([]pattern.Range(nil), ranges...),
		digest: digest,
		seq:    r.seq,
	}
}

// Current returns the cached ranges when they were tracked against text with
// the given digest.
func (r *Registry) Current(bufferID, decorationID string, digest uint64) ([]pattern.Range, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.buffers[bufferID][decorationID]
	if !ok || digest == 0 || e.digest != digest {
		return nil, false
	}
	return append([]pattern.Range(nil), e.ranges...), true
}

// Ranges returns whatever is recorded for decorationID in bufferID.
func (r *Registry) Ranges(bufferID, decorationID string) []pattern.Range {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]pattern.Range(nil), r.buffers[bufferID][decorationID].ranges...)
}

// Lookup returns the decoration whose ranges in bufferID contain pos. When
// ranges of several decorations overlap at pos the most recently registered
// one wins.
func (r *Registry) Lookup(bufferID string, pos int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		found   string
		bestSeq uint64
	)
	for decorationID, e := range r.buffers[bufferID] {
		if e.seq <= bestSeq {
			continue
		}
		for _, rg := range e.ranges {
			if rg.Contains(pos) {
				found, bestSeq = decorationID, e.seq
				break
			}
		}
	}
	return found, bestSeq != 0
}

// Unregister drops every entry of decorationID across all buffers.
func (r *Registry) Unregister(decorationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for bufferID, decorations := range r.buffers {
		delete(decorations, decorationID)
		if len(decorations) == 0 {
			delete(r.buffers, bufferID)
		}
	}
}

// PruneBuffer drops every entry recorded for a closed buffer.
func (r *Registry) PruneBuffer(bufferID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.buffers, bufferID)
}

// decorationIDs returns the decorations with entries in any buffer.
func (r *Registry) decorationIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var ids []string
	for _, decorations := range r.buffers {
		for id := range decorations {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
