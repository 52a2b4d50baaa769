package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // Cyan: primary accent
	colorAccent  = lipgloss.Color("#FFD700") // Gold: skipped attempts
	colorSuccess = lipgloss.Color("#00E676") // Green: accepted
	colorDanger  = lipgloss.Color("#FF5252") // Red: errors
	colorMuted   = lipgloss.Color("#636363") // Gray: de-emphasized
	colorWhite   = lipgloss.Color("#EEEEEE")
	colorSurface = lipgloss.Color("#1E1E2E")
)

var (
	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleValue = lipgloss.NewStyle().
			Foreground(colorWhite)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleWarn = lipgloss.NewStyle().
			Foreground(colorAccent)

	styleError = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFooterSep = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// renderProgressBar creates a filled/empty bar. Accepted artifacts render in
// green, skipped attempts in gold, the remainder in gray.
func renderProgressBar(accepted, skipped, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	doneRatio := float64(accepted) / float64(total)
	if doneRatio > 1 {
		doneRatio = 1
	}
	skipRatio := float64(skipped) / float64(total)
	if doneRatio+skipRatio > 1 {
		skipRatio = 1 - doneRatio
	}

	doneFilled := int(doneRatio * float64(width))
	skipFilled := int(skipRatio * float64(width))
	empty := width - doneFilled - skipFilled
	if empty < 0 {
		empty = 0
	}

	doneStyle := lipgloss.NewStyle().Background(colorSurface).Foreground(colorSuccess)
	skipStyle := lipgloss.NewStyle().Background(colorSurface).Foreground(colorAccent)
	emptyStyle := lipgloss.NewStyle().Background(colorSurface).Foreground(colorMuted)

	return doneStyle.Render(strings.Repeat("━", doneFilled)) +
		skipStyle.Render(strings.Repeat("━", skipFilled)) +
		emptyStyle.Render(strings.Repeat("░", empty))
}
