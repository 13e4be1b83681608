// Package buffer provides the text buffers decorations are applied to.
package buffer

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/afero"

	"github.com/cheerioskun/textmarker/internal/pattern"
	"github.com/cheerioskun/textmarker/internal/style"
	"github.com/cheerioskun/textmarker/internal/utils"
)

// ErrBufferNotFound is returned when an operation names a buffer that is not open.
var ErrBufferNotFound = errors.New("buffer not found")

// Buffer is what the decoration engine needs from an open text buffer.
type Buffer interface {
	ID() string
	Text() string
	Selection() pattern.Range
	SetStyledRanges(h *style.Handle, ranges []pattern.Range)
	ClearStyle(h *style.Handle)
}

// SelectedText returns the text covered by the buffer's selection.
func SelectedText(b Buffer) string {
	sel := b.Selection()
	if sel.IsEmpty() {
		return ""
	}
	runes := []rune(b.Text())
	start, end := clamp(sel.Start, len(runes)), clamp(sel.End, len(runes))
	return string(runes[start:end])
}

// StyledRange is one painted span of a file buffer.
type StyledRange struct {
	Range  pattern.Range
	Handle *style.Handle
}

// FileBuffer is a Buffer backed by a file on an afero filesystem.
type FileBuffer struct {
	mu     sync.RWMutex
	fs     afero.Fs
	path   string
	text   []rune
	cursor int
	anchor int // selection anchor, -1 when not selecting
	styled map[*style.Handle][]pattern.Range
}

// Open reads path into a new FileBuffer.
func Open(fs afero.Fs, path string) (*FileBuffer, error) {
	b := &FileBuffer{
		fs:     fs,
		path:   path,
		anchor: -1,
		styled: make(map[*style.Handle][]pattern.Range),
	}
	if _, err := b.Reload(); err != nil {
		return nil, err
	}
	return b, nil
}

// ID returns the buffer identifier, its path.
func (b *FileBuffer) ID() string {
	return b.path
}

// Path returns the file path of the buffer.
func (b *FileBuffer) Path() string {
	return b.path
}

// Reload re-reads the file and reports whether the text changed. The cursor
// and selection are clamped to the new text.
func (b *FileBuffer) Reload() (bool, error) {
	data, err := afero.ReadFile(b.fs, b.path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", b.path, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	text := []rune(string(data))
	changed := string(text) != string(b.text)
	b.text = text
	b.cursor = clamp(b.cursor, len(text))
	if b.anchor >= 0 {
		b.anchor = clamp(b.anchor, len(text))
	}

	if changed {
		utils.Debug(utils.CatBuffer, "buffer reloaded", "path", b.path, "runes", len(text))
	}
	return changed, nil
}

// Text returns the full buffer text.
func (b *FileBuffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.text)
}

// Len returns the length of the text in runes.
func (b *FileBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// Cursor returns the cursor offset in runes.
func (b *FileBuffer) Cursor() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursor
}

// Selection returns the selected range, empty at the cursor when nothing is selected.
func (b *FileBuffer) Selection() pattern.Range {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.anchor < 0 {
		return pattern.Range{Start: b.cursor, End: b.cursor}
	}
	if b.anchor < b.cursor {
		return pattern.Range{Start: b.anchor, End: b.cursor}
	}
	return pattern.Range{Start: b.cursor, End: b.anchor}
}

// Selecting reports whether a selection anchor is set.
func (b *FileBuffer) Selecting() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.anchor >= 0
}

// StartSelection anchors a selection at the cursor.
func (b *FileBuffer) StartSelection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.anchor = b.cursor
}

// ClearSelection drops the selection anchor.
func (b *FileBuffer) ClearSelection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.anchor = -1
}

// Select sets the selection to r with the cursor at its end.
func (b *FileBuffer) Select(r pattern.Range) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.anchor = clamp(r.Start, len(b.text))
	b.cursor = clamp(r.End, len(b.text))
}

// MoveCursor moves the cursor by delta runes.
func (b *FileBuffer) MoveCursor(delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = clamp(b.cursor+delta, len(b.text))
}

// MoveLine moves the cursor delta lines up or down, keeping the column when possible.
func (b *FileBuffer) MoveLine(delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	line, col := position(b.text, b.cursor)
	starts := lineStarts(b.text)
	target := line + delta
	if target < 0 {
		target = 0
	}
	if target >= len(starts) {
		target = len(starts) - 1
	}

	end := len(b.text)
	if target+1 < len(starts) {
		end = starts[target+1] - 1
	}
	b.cursor = clamp(starts[target]+col, end)
}

// GotoLine puts the cursor at the start of line, clamped to the text.
func (b *FileBuffer) GotoLine(line int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	starts := lineStarts(b.text)
	line = max(min(line, len(starts)-1), 0)
	b.cursor = starts[line]
}

// Position returns the zero-based line and column of the cursor.
func (b *FileBuffer) Position() (int, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return position(b.text, b.cursor)
}

// PositionAt returns the zero-based line and column of offset.
func (b *FileBuffer) PositionAt(offset int) (int, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return position(b.text, offset)
}

// Slice returns the text of r, clamped to the buffer.
func (b *FileBuffer) Slice(r pattern.Range) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start, end := clamp(r.Start, len(b.text)), clamp(r.End, len(b.text))
	if start >= end {
		return ""
	}
	return string(b.text[start:end])
}

// SetStyledRanges paints ranges with h, replacing what h painted before.
func (b *FileBuffer) SetStyledRanges(h *style.Handle, ranges []pattern.Range) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(ranges) == 0 {
		delete(b.styled, h)
		return
	}
	b.styled[h] = append([]pattern.Range(nil), ranges...)
}

// ClearStyle removes everything painted with h.
func (b *FileBuffer) ClearStyle(h *style.Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.styled, h)
}

// StyledRanges returns every painted span ordered by start offset.
func (b *FileBuffer) StyledRanges() []StyledRange {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var spans []StyledRange
	for h, ranges := range b.styled {
		for _, r := range ranges {
			spans = append(spans, StyledRange{Range: r, Handle: h})
		}
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Range.Start != spans[j].Range.Start {
			return spans[i].Range.Start < spans[j].Range.Start
		}
		return spans[i].Range.End < spans[j].Range.End
	})
	return spans
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

func lineStarts(text []rune) []int {
	starts := []int{0}
	for i, r := range text {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func position(text []rune, offset int) (int, int) {
	line, col := 0, 0
	for i := 0; i < offset && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}
