// internal/tui/progress.go
//
// Live progress view for a council run, built on bubbletea's Elm
// architecture: the orchestrator pushes messages in via Program.Send and the
// model just reflects them. Final output rendering stays in internal/console;
// this view only covers the waiting.

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marrowen/council/internal/constraint"
	"github.com/marrowen/council/internal/council"
)

// MemberDoneMsg reports one finished member slot.
type MemberDoneMsg struct {
	Result council.MemberResult
}

// SynthesisStartedMsg marks the transition from fan-out to reduction.
type SynthesisStartedMsg struct{}

// RunDoneMsg ends the progress view. The report itself is rendered by the
// caller after the program exits.
type RunDoneMsg struct{}

type slotStatus int

const (
	slotRunning slotStatus = iota
	slotDone
	slotFailed
)

type slotRow struct {
	lens    constraint.Lens
	status  slotStatus
	elapsed time.Duration
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7BD88F"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// Model is the bubbletea model for one run.
type Model struct {
	task       string
	rows       []slotRow
	spinner    spinner.Model
	synthesis  bool
	inSynth    bool
	finished   bool
	aborted    bool
	startedAt  time.Time
	doneCount  int
}

// NewModel builds the progress model for the given roster.
func NewModel(task string, selection []constraint.Lens, synthesize bool) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = pendingStyle

	rows := make([]slotRow, len(selection))
	for i, lens := range selection {
		rows[i] = slotRow{lens: lens}
	}
	return Model{
		task:      task,
		rows:      rows,
		spinner:   sp,
		synthesis: synthesize,
		startedAt: time.Now(),
	}
}

// Aborted reports whether the user quit before the run finished.
func (m Model) Aborted() bool {
	return m.aborted
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update reacts to run progress and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.aborted = true
			return m, tea.Quit
		}
		return m, nil

	case MemberDoneMsg:
		slot := msg.Result.Slot
		if slot >= 0 && slot < len(m.rows) {
			if msg.Result.Failed() {
				m.rows[slot].status = slotFailed
			} else {
				m.rows[slot].status = slotDone
			}
			m.rows[slot].elapsed = msg.Result.Elapsed
			m.doneCount++
		}
		return m, nil

	case SynthesisStartedMsg:
		m.inSynth = true
		return m, nil

	case RunDoneMsg:
		m.finished = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders one row per member plus the synthesis line.
func (m Model) View() string {
	if m.finished {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("⬡ COUNCIL · %d/%d members reported", m.doneCount, len(m.rows))))
	b.WriteString("\n\n")

	for i, row := range m.rows {
		b.WriteString(m.renderRow(i, row))
		b.WriteString("\n")
	}

	if m.synthesis {
		b.WriteString("\n")
		switch {
		case m.inSynth:
			b.WriteString(fmt.Sprintf("%s synthesizing...", m.spinner.View()))
		default:
			b.WriteString(hintStyle.Render("  synthesis pending"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render(fmt.Sprintf("elapsed %s · q to abort", time.Since(m.startedAt).Round(time.Second))))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderRow(i int, row slotRow) string {
	name := row.lens.Name
	if row.lens.Mandatory {
		name += " *"
	}
	label := fmt.Sprintf("%d. %s", i+1, name)
	switch row.status {
	case slotDone:
		return doneStyle.Render(fmt.Sprintf("  ✓ %s (%s)", label, row.elapsed.Round(time.Second)))
	case slotFailed:
		return failStyle.Render(fmt.Sprintf("  ✗ %s (%s)", label, row.elapsed.Round(time.Second)))
	default:
		return fmt.Sprintf("%s %s", m.spinner.View(), label)
	}
}
