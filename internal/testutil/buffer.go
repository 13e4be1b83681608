// Package testutil provides fakes shared by the engine tests.
package testutil

import (
	"sync"

	"github.com/cheerioskun/textmarker/internal/pattern"
	"github.com/cheerioskun/textmarker/internal/style"
)

// StyleCall records one SetStyledRanges or ClearStyle call.
type StyleCall struct {
	Handle *style.Handle
	Ranges []pattern.Range
	Clear  bool
}

// FakeBuffer is a thread-safe in-memory buffer.Buffer that records every
// styling call made against it.
type FakeBuffer struct {
	mu        sync.Mutex
	id        string
	text      string
	selection pattern.Range
	calls     []StyleCall
	styled    map[*style.Handle][]pattern.Range
}

// NewFakeBuffer creates a fake buffer holding text.
func NewFakeBuffer(id, text string) *FakeBuffer {
	return &FakeBuffer{
		id:     id,
		text:   text,
		styled: make(map[*style.Handle][]pattern.Range),
	}
}

// ID implements buffer.Buffer
func (b *FakeBuffer) ID() string {
	return b.id
}

// Text implements buffer.Buffer
func (b *FakeBuffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// SetText replaces the buffer text, simulating an edit.
func (b *FakeBuffer) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
}

// Selection implements buffer.Buffer
func (b *FakeBuffer) Selection() pattern.Range {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selection
}

// Select sets the selection.
func (b *FakeBuffer) Select(start, end int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = pattern.Range{Start: start, End: end}
}

// SetStyledRanges implements buffer.Buffer
func (b *FakeBuffer) SetStyledRanges(h *style.Handle, ranges []pattern.Range) {
	b.mu.Lock()
	defer b.mu.Unlock()

	copied := append([]pattern.Range(nil), ranges...)
	b.calls = append(b.calls, StyleCall{Handle: h, Ranges: copied})
	if len(copied) == 0 {
		delete(b.styled, h)
		return
	}
	b.styled[h] = copied
}

// ClearStyle implements buffer.Buffer
func (b *FakeBuffer) ClearStyle(h *style.Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, StyleCall{Handle: h, Clear: true})
	delete(b.styled, h)
}

// Calls returns a copy of every styling call in order.
func (b *FakeBuffer) Calls() []StyleCall {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]StyleCall, len(b.calls))
	copy(result, b.calls)
	return result
}

// Styled returns what h currently paints.
func (b *FakeBuffer) Styled(h *style.Handle) []pattern.Range {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]pattern.Range(nil), b.styled[h]...)
}

// StyledCount returns how many handles currently paint something.
func (b *FakeBuffer) StyledCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.styled)
}

// Reset forgets recorded calls but keeps the painted state.
func (b *FakeBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}
