package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/papapumpkin/strata/internal/ansi"
	"github.com/papapumpkin/strata/internal/layer"
)

const (
	reset   = ansi.Reset
	bold    = ansi.Bold
	dim     = ansi.Dim
	yellow  = ansi.Yellow
	green   = ansi.Green
	red     = ansi.Red
	cyan    = ansi.Cyan
	magenta = ansi.Magenta
)

// Progress is a snapshot of a generation run.
type Progress struct {
	Attempts int // attempts made so far
	Accepted int // artifacts written so far
	Skipped  int // attempts rejected by the required-trait pattern
	Target   int // artifacts requested
}

// UI receives generation lifecycle callbacks. Printer renders them on
// stderr; the tui package forwards them to a BubbleTea program.
type UI interface {
	GenerationStarted(edition string, target int)
	Progress(p Progress)
	Linked(layerName, label, linkedLabel string)
	GenerationDone(p Progress)
	Deduplicated(generated, distinct, removed int)
	Info(msg string)
	Error(msg string)
}

// Printer writes human-readable output to stderr.
type Printer struct {
	Verbose bool
}

var _ UI = (*Printer)(nil)

// New returns a Printer.
func New() *Printer {
	return &Printer{}
}

func (p *Printer) Banner() {
	fmt.Fprintln(os.Stderr, bold+magenta+"  ▚ STRATA "+reset+dim+"layered edition generator"+reset)
	fmt.Fprintln(os.Stderr)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(os.Stderr, red+bold+"error: "+reset+"%s\n", msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintf(os.Stderr, dim+"%s"+reset+"\n", msg)
}

// GenerationStarted announces a run.
func (p *Printer) GenerationStarted(edition string, target int) {
	fmt.Fprintf(os.Stderr, cyan+"◆ edition"+reset+" %s — generating %d artifact(s)\n", edition, target)
}

// ProgressLine formats a progress line without ANSI codes.
func ProgressLine(pr Progress) string {
	line := fmt.Sprintf("[strata] %d/%d artifacts | %d attempt(s)", pr.Accepted, pr.Target, pr.Attempts)
	if pr.Skipped > 0 {
		line += fmt.Sprintf(" | %d skipped", pr.Skipped)
	}
	return line
}

// Progress overwrites the current line with the run's progress.
func (p *Printer) Progress(pr Progress) {
	fmt.Fprintf(os.Stderr, "\r"+ansi.ClearLine+cyan+"%s"+reset, ProgressLine(pr))
}

// Linked reports a link resolution when verbose output is on.
func (p *Printer) Linked(layerName, label, linkedLabel string) {
	if !p.Verbose {
		return
	}
	fmt.Fprintf(os.Stderr, "\r"+ansi.ClearLine+dim+"linking %s (%s) with %s"+reset+"\n", label, layerName, linkedLabel)
}

// GenerationDone ends the progress line and reports attempts against
// accepted artifacts, which differ when a required-trait pattern is set.
func (p *Printer) GenerationDone(pr Progress) {
	fmt.Fprintln(os.Stderr)
	if pr.Accepted < pr.Target {
		fmt.Fprintf(os.Stderr, yellow+bold+"⚠ %d of %d requested artifact(s) produced"+reset+" after %d attempt(s) (%d skipped by pattern)\n",
			pr.Accepted, pr.Target, pr.Attempts, pr.Skipped)
		return
	}
	fmt.Fprintf(os.Stderr, green+"✓ generated %d artifact(s)"+reset+dim+" in %d attempt(s)"+reset+"\n", pr.Accepted, pr.Attempts)
}

// Deduplicated reports the dedup pass.
func (p *Printer) Deduplicated(generated, distinct, removed int) {
	fmt.Fprintf(os.Stderr, "generated %d artifact(s), %d distinct\n", generated, distinct)
	if removed > 0 {
		fmt.Fprintf(os.Stderr, yellow+"removed %d duplicate(s)"+reset+"\n", removed)
	}
}

// ValidateResult prints the outcome of layer validation.
func (p *Printer) ValidateResult(layers []layer.Layer, combinations string, err error) {
	if err == nil {
		fmt.Fprintf(os.Stderr, green+bold+"✓ layers"+reset+" — %d layer(s), no errors\n", len(layers))
		for _, l := range layers {
			extra := ""
			if !l.Required {
				extra = dim + " (optional)" + reset
			}
			if l.Linked() {
				extra += dim + " → " + l.LinkedTo + reset
			}
			fmt.Fprintf(os.Stderr, "  %-16s %3d trait(s)%s\n", l.Name, len(l.Traits), extra)
		}
		fmt.Fprintf(os.Stderr, "you can create a total of %s distinct artifact(s)\n", combinations)
		return
	}

	problems, ok := err.(layer.Problems)
	if !ok {
		p.Error(err.Error())
		return
	}
	fmt.Fprintf(os.Stderr, red+bold+"✗ layers"+reset+" — %d error(s):\n", len(problems))
	for _, e := range problems {
		fmt.Fprintf(os.Stderr, "  "+red+"• "+reset+"%s\n", e.Error())
	}
}

// Table prints rows as aligned columns under header.
func (p *Printer) Table(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, c := range r {
			if i < len(widths) && len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}
	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			if i < len(widths) {
				c = fmt.Sprintf("%-*s", widths[i], c)
			}
			parts[i] = c
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}
	fmt.Fprintln(os.Stderr, bold+line(header)+reset)
	for _, r := range rows {
		fmt.Fprintln(os.Stderr, line(r))
	}
}
