package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/strata/internal/ui"
)

// maxLog is the number of info/link lines kept on screen.
const maxLog = 6

// barWidth is the progress bar width used before the first WindowSizeMsg.
const barWidth = 40

// Model renders the progress of one generation run.
type Model struct {
	Edition   string
	Progress  ui.Progress
	Generated bool
	Dedup     *MsgDeduplicated
	Log       []string
	Err       error
	Width     int
	StartTime time.Time
	Done      bool
	HideLog   bool
	Keys      KeyMap
	Spinner   spinner.Model
	Cancel    func() // invoked on ctrl+c / q; may be nil
}

// NewModel returns an empty progress model.
func NewModel(cancel func()) Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = styleTitle
	return Model{StartTime: time.Now(), Keys: DefaultKeyMap(), Spinner: s, Cancel: cancel}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
	case spinner.TickMsg:
		if m.Generated {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Stop):
			if m.Cancel != nil {
				m.Cancel()
			}
			m.log(styleWarn.Render("stopping after the current batch…"))
		case key.Matches(msg, m.Keys.Log):
			m.HideLog = !m.HideLog
		}
	case MsgStarted:
		m.Edition = msg.Edition
		m.Progress.Target = msg.Target
	case MsgProgress:
		m.Progress = msg.Progress
	case MsgLinked:
		m.log(styleMuted.Render(fmt.Sprintf("linking %s (%s) with %s", msg.Label, msg.Layer, msg.LinkedLabel)))
	case MsgGenerationDone:
		m.Progress = msg.Progress
		m.Generated = true
	case MsgDeduplicated:
		d := msg
		m.Dedup = &d
	case MsgInfo:
		m.log(styleMuted.Render(msg.Msg))
	case MsgError:
		m.log(styleError.Render("error: ") + msg.Msg)
	case MsgDone:
		m.Done = true
		m.Err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) log(line string) {
	m.Log = append(m.Log, line)
	if len(m.Log) > maxLog {
		m.Log = m.Log[len(m.Log)-maxLog:]
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	if !m.Generated {
		b.WriteString(m.Spinner.View() + " ")
	}
	b.WriteString(styleTitle.Render("strata"))
	if m.Edition != "" {
		b.WriteString(styleMuted.Render(" · edition ") + styleValue.Render(m.Edition))
	}
	b.WriteString("\n\n")

	width := barWidth
	if m.Width > 20 && m.Width-20 < width {
		width = m.Width - 20
	}
	b.WriteString(renderProgressBar(m.Progress.Accepted, m.Progress.Skipped, m.Progress.Target, width))
	b.WriteString(" " + styleValue.Render(fmt.Sprintf("%d/%d", m.Progress.Accepted, m.Progress.Target)))
	b.WriteString("\n")
	b.WriteString(styleMuted.Render(fmt.Sprintf("%d attempt(s)", m.Progress.Attempts)))
	if m.Progress.Skipped > 0 {
		b.WriteString(styleWarn.Render(fmt.Sprintf(" · %d skipped by pattern", m.Progress.Skipped)))
	}
	b.WriteString(styleMuted.Render(fmt.Sprintf(" · %s", time.Since(m.StartTime).Round(time.Second))))
	b.WriteString("\n")

	if m.Dedup != nil {
		b.WriteString(fmt.Sprintf("%d distinct of %d", m.Dedup.Distinct, m.Dedup.Generated))
		if m.Dedup.Removed > 0 {
			b.WriteString(styleWarn.Render(fmt.Sprintf(" · %d duplicate(s) removed", m.Dedup.Removed)))
		}
		b.WriteString("\n")
	}

	if !m.HideLog {
		for _, line := range m.Log {
			b.WriteString(line + "\n")
		}
	}
	if !m.Done {
		b.WriteString(Footer{Width: m.Width, Bindings: FooterBindings(m.Keys)}.View() + "\n")
	}
	return b.String()
}
