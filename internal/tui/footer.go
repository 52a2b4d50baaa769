package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// compactWidth is the terminal width below which the footer drops
// binding descriptions.
const compactWidth = 60

// Footer renders keybinding hints.
type Footer struct {
	Width    int
	Bindings []key.Binding
}

// View renders the footer as a single line of keybinding hints.
func (f Footer) View() string {
	compact := f.Width > 0 && f.Width < compactWidth

	var parts []string
	for _, b := range f.Bindings {
		if !b.Enabled() {
			continue
		}
		help := b.Help()
		part := styleFooterKey.Render(help.Key)
		if !compact {
			part += styleFooterSep.Render(":") + styleMuted.Render(help.Desc)
		}
		parts = append(parts, part)
	}
	sep := "  "
	if compact {
		sep = " "
	}
	return strings.Join(parts, styleFooterSep.Render(sep))
}

// FooterBindings returns the bindings shown while a run is in progress.
func FooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Stop, km.Log}
}
