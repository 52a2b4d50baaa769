package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates an inline (no alternate screen) progress program.
// cancel is invoked when the user presses q or ctrl+c.
func NewProgram(out io.Writer, cancel func(), opts ...tea.ProgramOption) *Program {
	allOpts := []tea.ProgramOption{tea.WithOutput(out)}
	allOpts = append(allOpts, opts...)
	return tea.NewProgram(NewModel(cancel), allOpts...)
}

// Run executes work while the program renders its progress. work receives
// a Bridge to report through. Run returns work's error once the program has
// exited.
func Run(out io.Writer, verbose bool, cancel func(), work func(b *Bridge) error, opts ...tea.ProgramOption) error {
	p := NewProgram(out, cancel, opts...)
	bridge := NewBridge(p, verbose)

	errc := make(chan error, 1)
	go func() {
		err := work(bridge)
		errc <- err
		bridge.Done(err)
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return <-errc
}
