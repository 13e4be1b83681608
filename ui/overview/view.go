package overview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cheerioskun/textmarker/internal/overview"
)

// Styles for overview rendering
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	emptyBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	selectedLabelStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("205")).
				Foreground(lipgloss.Color("0"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("111"))
)

// renderOverview renders the bars with their status and help lines
func (m *Model) renderOverview() string {
	title := "Highlight Overview"
	if m.focused {
		title += " *"
	}

	parts := []string{
		titleStyle.Render(title),
		m.renderBars(),
		m.renderStatus(),
	}
	if help := m.renderHelp(); help != "" {
		parts = append(parts, help)
	}
	return strings.Join(parts, "\n")
}

// renderBars creates one bar per bin, scrolled to keep the cursor visible
func (m *Model) renderBars() string {
	peak := overview.Peak(m.bins)

	availableHeight := max(m.height-4, 1) // Reserve space for title, status, help
	start := 0
	if m.cursor >= availableHeight {
		start = m.cursor - availableHeight + 1
	}
	end := min(start+availableHeight, len(m.bins))

	var lines []string
	for i := start; i < end; i++ {
		bin := m.bins[i]

		barLength := 0
		if peak > 0 {
			barLength = bin.Count * m.maxBarWidth / peak
		}

		label := fmt.Sprintf("%6d", bin.StartLine+1)
		if m.focused && i == m.cursor {
			label = selectedLabelStyle.Render(label)
		} else {
			label = labelStyle.Render(label)
		}

		lines = append(lines, fmt.Sprintf("%s %s %s", label, m.createBar(barLength), labelStyle.Render(fmt.Sprintf("%d", bin.Count))))
	}

	return strings.Join(lines, "\n")
}

// createBar creates a single bar
func (m *Model) createBar(length int) string {
	if length <= 0 {
		return emptyBarStyle.Render("▏")
	}
	return barStyle.Render(strings.Repeat("█", length))
}

// renderStatus renders summary statistics
func (m *Model) renderStatus() string {
	total := 0
	nonEmptyBins := 0
	for _, bin := range m.bins {
		total += bin.Count
		if bin.Count > 0 {
			nonEmptyBins++
		}
	}

	return statusStyle.Render(fmt.Sprintf("Total: %d | Peak: %d | Active bins: %d/%d",
		total, overview.Peak(m.bins), nonEmptyBins, len(m.bins)))
}

// renderHelp renders the help text
func (m *Model) renderHelp() string {
	if !m.focused {
		return ""
	}
	return helpStyle.Render("↑/↓: select | enter: jump | +/-: bins")
}

// renderEmpty renders the empty state
func (m *Model) renderEmpty() string {
	return fmt.Sprintf("%s\n\n%s", titleStyle.Render("Highlight Overview"), helpStyle.Render("No file open"))
}
