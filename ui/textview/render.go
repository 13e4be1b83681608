package textview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/pattern"
	"github.com/cheerioskun/textmarker/internal/style"
)

var (
	selectionStyle = lipgloss.NewStyle().Reverse(true)
	cursorStyle    = lipgloss.NewStyle().Underline(true).Bold(true)
)

// cell is how one rune is painted.
type cell struct {
	handle   *style.Handle
	selected bool
	cursor   bool
}

// RenderLines paints text line by line: highlight spans first, then the
// selection, then the cursor. Later spans win where spans overlap.
func RenderLines(text []rune, spans []buffer.StyledRange, sel pattern.Range, cursor int) []string {
	cells := make([]cell, len(text)+1)
	for _, span := range spans {
		for i := max(span.Range.Start, 0); i < span.Range.End && i < len(text); i++ {
			cells[i].handle = span.Handle
		}
	}
	for i := max(sel.Start, 0); i < sel.End && i < len(text); i++ {
		cells[i].selected = true
	}
	if cursor >= 0 && cursor <= len(text) {
		cells[cursor].cursor = true
	}

	var (
		lines []string
		line  strings.Builder
		run   []rune
		cur   cell
	)
	flush := func() {
		if len(run) > 0 {
			line.WriteString(paint(cur, string(run)))
			run = run[:0]
		}
	}

	for i, r := range text {
		if r == '\n' {
			if cells[i].cursor {
				flush()
				line.WriteString(cursorStyle.Render(" "))
			}
			flush()
			lines = append(lines, line.String())
			line.Reset()
			continue
		}
		if cells[i] != cur {
			flush()
			cur = cells[i]
		}
		run = append(run, r)
	}
	flush()
	if cells[len(text)].cursor {
		line.WriteString(cursorStyle.Render(" "))
	}
	lines = append(lines, line.String())
	return lines
}

func paint(c cell, s string) string {
	st := lipgloss.NewStyle()
	if c.handle != nil {
		st = c.handle.Style
	}
	if c.selected {
		st = st.Inherit(selectionStyle)
	}
	if c.cursor {
		st = st.Inherit(cursorStyle)
	}
	if c == (cell{}) {
		return s
	}
	return st.Render(s)
}
