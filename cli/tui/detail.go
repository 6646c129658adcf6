package tui

import (
	"fmt"
	"strings"

	"github.com/credo-hq/credo/core/taxonomy"
)

// renderDetail renders the detail view for a single practice score.
func renderDetail(m *Model) string {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return "No practice selected."
	}

	ps := m.filtered[m.cursor]

	var b strings.Builder

	// Header.
	badge := statusStyle(ps.Status).Render(strings.ToUpper(string(ps.Status)))
	b.WriteString(fmt.Sprintf(" %s · %s · %s · score %s\n",
		practiceIDStyle.Render(ps.PracticeID),
		m.names[ps.PracticeID],
		badge,
		formatScore(ps.Score)))
	b.WriteString(headerStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")

	// Phase and sub-practices.
	if p, err := taxonomy.Resolve(ps.PracticeID); err == nil {
		b.WriteString(" " + subtleStyle.Render("Phase: "+string(p.Phase)) + "\n")
		if len(p.SubPractices) > 0 {
			b.WriteString(" " + subtleStyle.Render("Sub-practices: "+strings.Join(p.SubPractices, ", ")) + "\n")
		}
		b.WriteString("\n")
	}

	// Contributing findings.
	if len(ps.ContributingFindings) > 0 {
		b.WriteString(" " + sectionHeaderStyle.Render("Findings") + "\n")
		for _, f := range ps.ContributingFindings {
			loc := ""
			if len(f.Locations) > 0 {
				loc = locationStyle.Render(f.Locations[0])
				if len(f.Locations) > 1 {
					loc += subtleStyle.Render(fmt.Sprintf(" (+%d more)", len(f.Locations)-1))
				}
			}
			b.WriteString(fmt.Sprintf("   %s  %-28s ×%d  %s\n",
				severityBadge(f.Severity), f.FindingType, f.Count, loc))
		}
		b.WriteString("\n")
	}

	// Recommendations.
	if len(ps.Recommendations) > 0 {
		b.WriteString(" " + sectionHeaderStyle.Render("Recommendations") + "\n")
		for _, rec := range ps.Recommendations {
			b.WriteString(wrapText(rec, m.width-4, "   "))
		}
		b.WriteString("\n")
	}

	// Help.
	b.WriteString(helpStyle.Render(" esc back  n/p next/prev  q quit"))
	b.WriteString("\n")

	return b.String()
}

// wrapText wraps text at the given width with the given indent prefix.
func wrapText(text string, width int, indent string) string {
	if width <= 0 {
		width = 78
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(indent)
	lineLen := len(indent)

	for i, word := range words {
		if i > 0 && lineLen+1+len(word) > width {
			b.WriteString("\n" + indent)
			lineLen = len(indent)
		} else if i > 0 {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	b.WriteString("\n")
	return b.String()
}
