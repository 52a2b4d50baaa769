package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/strata/internal/ui"
)

// Bridge implements ui.UI by forwarding each call as a typed message to a
// BubbleTea program. tea.Program.Send is goroutine-safe.
type Bridge struct {
	program *tea.Program
	verbose bool
}

// Verify Bridge satisfies ui.UI at compile time.
var _ ui.UI = (*Bridge)(nil)

// NewBridge creates a bridge that sends messages to the given program.
func NewBridge(p *tea.Program, verbose bool) *Bridge {
	return &Bridge{program: p, verbose: verbose}
}

// GenerationStarted sends MsgStarted.
func (b *Bridge) GenerationStarted(edition string, target int) {
	b.program.Send(MsgStarted{Edition: edition, Target: target})
}

// Progress sends MsgProgress.
func (b *Bridge) Progress(p ui.Progress) {
	b.program.Send(MsgProgress{Progress: p})
}

// Linked sends MsgLinked in verbose mode.
func (b *Bridge) Linked(layerName, label, linkedLabel string) {
	if !b.verbose {
		return
	}
	b.program.Send(MsgLinked{Layer: layerName, Label: label, LinkedLabel: linkedLabel})
}

// GenerationDone sends MsgGenerationDone.
func (b *Bridge) GenerationDone(p ui.Progress) {
	b.program.Send(MsgGenerationDone{Progress: p})
}

// Deduplicated sends MsgDeduplicated.
func (b *Bridge) Deduplicated(generated, distinct, removed int) {
	b.program.Send(MsgDeduplicated{Generated: generated, Distinct: distinct, Removed: removed})
}

// Info sends MsgInfo.
func (b *Bridge) Info(msg string) {
	b.program.Send(MsgInfo{Msg: msg})
}

// Error sends MsgError.
func (b *Bridge) Error(msg string) {
	b.program.Send(MsgError{Msg: msg})
}

// Done sends MsgDone, which quits the program.
func (b *Bridge) Done(err error) {
	b.program.Send(MsgDone{Err: err})
}
