package highlights

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cheerioskun/textmarker/internal/decoration"
	"github.com/cheerioskun/textmarker/internal/pattern"
)

// Styling constants
var (
	// Colors
	primaryColor   = lipgloss.Color("205")
	secondaryColor = lipgloss.Color("240")
	errorColor     = lipgloss.Color("196")

	// Base styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	patternStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedPatternStyle = lipgloss.NewStyle().
				Background(primaryColor).
				Foreground(lipgloss.Color("0")).
				Padding(0, 1)

	editInputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1).
			Margin(1, 0)

	helpStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Margin(1, 0, 0, 0)
)

func (m *Model) renderNormalMode() string {
	title := fmt.Sprintf("Highlights (%d)", len(m.items))
	if m.focused {
		title += " *"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(title),
		m.renderItems(m.height-4),
		m.renderHelp(),
	)
}

func (m *Model) renderEditMode() string {
	title := "Add Regex Highlight"
	if m.editKind == EditingPhrase {
		title = "Edit Highlight Phrase"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(title),
		editInputStyle.Render(m.editInput.View()),
		helpStyle.Render("Enter: Confirm • Esc: Cancel"),
	)
}

func (m *Model) renderItems(maxHeight int) string {
	if len(m.items) == 0 {
		emptyMsg := "No highlights"
		if m.focused {
			emptyMsg += " (press 'r' to add a regex)"
		}
		return lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true).
			Render(emptyMsg)
	}

	// Calculate visible range
	visibleStart, visibleEnd := 0, len(m.items)
	if maxHeight > 0 && len(m.items) > maxHeight {
		if m.cursor >= maxHeight {
			visibleStart = m.cursor - maxHeight + 1
		}
		visibleEnd = min(visibleStart+maxHeight, len(m.items))
	}

	var lines []string
	if visibleStart > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(secondaryColor).Render("↑ ..."))
	}
	for i := visibleStart; i < visibleEnd; i++ {
		lines = append(lines, m.renderItem(m.items[i], m.focused && i == m.cursor))
	}
	if visibleEnd < len(m.items) {
		lines = append(lines, lipgloss.NewStyle().Foreground(secondaryColor).Render("↓ ..."))
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderItem(d *decoration.Decoration, isSelected bool) string {
	swatch := "  "
	if d.Style != nil {
		swatch = d.Style.Render("  ")
	}

	text := d.Pattern.String()
	maxText := max(m.width-8, 10)
	if len([]rune(text)) > maxText {
		text = string([]rune(text)[:maxText-3]) + "..."
	}

	status := ""
	if d.Pattern.Kind == pattern.Regex && !d.Pattern.Valid() {
		status = lipgloss.NewStyle().Foreground(errorColor).Render(" ✗")
	}

	if isSelected {
		return swatch + selectedPatternStyle.Render(text) + status
	}
	return swatch + patternStyle.Render(text) + status
}

func (m *Model) renderHelp() string {
	if !m.focused {
		return ""
	}

	helpItems := []string{
		"↑/↓: Navigate",
		"r: Add regex",
		"e/Enter: Edit",
		"d: Delete",
		"i: Case",
		"w: Whole match",
		"f: Refresh",
	}

	return helpStyle.Render(strings.Join(helpItems, " • "))
}
