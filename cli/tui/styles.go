package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/credo-hq/credo/core/findings"
	"github.com/credo-hq/credo/core/score"
)

var (
	// Status colors.
	colorCompliant     = lipgloss.Color("#2ECC71")
	colorPartial       = lipgloss.Color("#FFD700")
	colorNonCompliant  = lipgloss.Color("#FF0000")
	colorIncomplete    = lipgloss.Color("#808080")
	colorNotApplicable = lipgloss.Color("#4169E1")

	// Severity colors.
	colorCritical = lipgloss.Color("#FF0000")
	colorHigh     = lipgloss.Color("#FF8C00")
	colorMedium   = lipgloss.Color("#FFD700")
	colorLow      = lipgloss.Color("#4169E1")
	colorInfo     = lipgloss.Color("#808080")

	// UI colors.
	colorTitle    = lipgloss.Color("#FFFFFF")
	colorSubtle   = lipgloss.Color("#666666")
	colorSelected = lipgloss.Color("#7D56F4")

	// Styles.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTitle)

	subtleStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSelected)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorSubtle)

	practiceIDStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#AAAAAA"))

	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#88C0D0"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#A3BE8C"))
)

// statusStyle returns a styled status badge.
func statusStyle(status score.Status) lipgloss.Style {
	var color lipgloss.Color
	switch status {
	case score.StatusCompliant:
		color = colorCompliant
	case score.StatusPartial:
		color = colorPartial
	case score.StatusNonCompliant:
		color = colorNonCompliant
	case score.StatusNotApplicable:
		color = colorNotApplicable
	default:
		color = colorIncomplete
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}

// statusBadge returns a short status string for list display.
func statusBadge(status score.Status) string {
	style := statusStyle(status)
	switch status {
	case score.StatusCompliant:
		return style.Render("PASS")
	case score.StatusPartial:
		return style.Render("PART")
	case score.StatusNonCompliant:
		return style.Render("FAIL")
	case score.StatusNotApplicable:
		return style.Render(" N/A")
	default:
		return style.Render("INCO")
	}
}

// severityStyle returns a styled severity badge for finding lines.
func severityStyle(sev findings.Severity) lipgloss.Style {
	var color lipgloss.Color
	switch sev {
	case findings.SeverityCritical:
		color = colorCritical
	case findings.SeverityHigh:
		color = colorHigh
	case findings.SeverityMedium:
		color = colorMedium
	case findings.SeverityLow:
		color = colorLow
	default:
		color = colorInfo
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}

// severityBadge returns a short severity string for finding display.
func severityBadge(sev findings.Severity) string {
	style := severityStyle(sev)
	switch sev {
	case findings.SeverityCritical:
		return style.Render("CRIT")
	case findings.SeverityHigh:
		return style.Render("HIGH")
	case findings.SeverityMedium:
		return style.Render(" MED")
	case findings.SeverityLow:
		return style.Render(" LOW")
	default:
		return style.Render("INFO")
	}
}
