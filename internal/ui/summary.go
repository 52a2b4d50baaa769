package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#00BFFF")
	colorSuccess = lipgloss.Color("#00E676")
	colorAccent  = lipgloss.Color("#FFD700")
	colorMuted   = lipgloss.Color("#8C8C8C")

	styleSummaryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)

	styleSummaryTitle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleSummaryLabel = lipgloss.NewStyle().
				Foreground(colorMuted).
				Width(12)

	styleSummaryGood = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleSummaryWarn = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

// Summary describes a finished edition.
type Summary struct {
	Edition   string
	RunID     string
	Seed      int64
	Requested int
	Attempts  int
	Accepted  int
	Distinct  int
	Removed   int
	OutputDir string
}

// RenderSummary returns the boxed summary block.
func RenderSummary(s Summary) string {
	row := func(label, value string) string {
		return styleSummaryLabel.Render(label) + value
	}
	final := styleSummaryGood.Render(fmt.Sprint(s.Distinct))
	if s.Distinct < s.Requested {
		final = styleSummaryWarn.Render(fmt.Sprintf("%d of %d", s.Distinct, s.Requested))
	}
	lines := []string{
		styleSummaryTitle.Render("edition " + s.Edition),
		row("run", s.RunID),
		row("seed", fmt.Sprint(s.Seed)),
		row("attempts", fmt.Sprint(s.Attempts)),
		row("accepted", fmt.Sprint(s.Accepted)),
		row("duplicates", fmt.Sprint(s.Removed)),
		row("artifacts", final),
		row("output", s.OutputDir),
	}
	return styleSummaryBox.Render(strings.Join(lines, "\n"))
}

// Summary prints the boxed summary to stderr.
func (p *Printer) Summary(s Summary) {
	fmt.Fprintln(os.Stderr, RenderSummary(s))
}
