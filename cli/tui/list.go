package tui

import (
	"fmt"
	"strings"

	"github.com/credo-hq/credo/core/score"
)

// renderList renders the practice score list view.
func renderList(m *Model) string {
	var b strings.Builder

	// Header.
	title := titleStyle.Render(fmt.Sprintf(" credo — %d practices", len(m.filtered)))
	if len(m.scores) != len(m.filtered) {
		title += subtleStyle.Render(fmt.Sprintf(" (of %d total)", len(m.scores)))
	}
	title += subtleStyle.Render("  overall: ") + formatScore(m.summary.Overall)
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")

	// Filter status.
	filterLine := subtleStyle.Render(" Filter: ") +
		"[" + m.filter.activeStatus() + "]"
	if m.filter.search != "" {
		filterLine += subtleStyle.Render("  Search: ") + "[" + m.filter.search + "]"
	}
	b.WriteString(filterLine)
	b.WriteString("\n\n")

	// Practice list.
	if len(m.filtered) == 0 {
		b.WriteString(subtleStyle.Render("  No practices match the current filters.\n"))
	} else {
		// Calculate visible window.
		visibleLines := m.height - 8 // Header + filter + help lines.
		if visibleLines < 1 {
			visibleLines = 1
		}
		start := m.cursor - visibleLines/2
		if start < 0 {
			start = 0
		}
		end := start + visibleLines
		if end > len(m.filtered) {
			end = len(m.filtered)
			start = end - visibleLines
			if start < 0 {
				start = 0
			}
		}

		for i := start; i < end; i++ {
			ps := m.filtered[i]
			line := renderScoreLine(ps, m.names[ps.PracticeID], i == m.cursor)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	// Search input.
	if m.filter.searching {
		b.WriteString("\n")
		b.WriteString(" Search: " + m.filter.search + "█")
		b.WriteString("\n")
	}

	// Help.
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(" ↑↓ navigate  enter detail  / search  s status  q quit"))
	b.WriteString("\n")

	return b.String()
}

// renderScoreLine renders a single practice line in the list.
func renderScoreLine(ps score.PracticeScore, name string, selected bool) string {
	badge := statusBadge(ps.Status)
	id := practiceIDStyle.Render(fmt.Sprintf("%-6s", ps.PracticeID))
	scoreCol := fmt.Sprintf("%4s", formatScore(ps.Score))

	extra := ""
	if n := len(ps.ContributingFindings); n > 0 {
		extra = subtleStyle.Render(fmt.Sprintf("  (%d findings)", n))
	}

	line := fmt.Sprintf(" %s  %s  %s  %s%s", badge, id, scoreCol, name, extra)

	if selected {
		return selectedStyle.Render("▸") + line
	}
	return " " + line
}

// formatScore renders a nullable score.
func formatScore(s *int) string {
	if s == nil {
		return subtleStyle.Render("—")
	}
	return fmt.Sprintf("%d", *s)
}
