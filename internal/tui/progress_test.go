package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marrowen/council/internal/constraint"
	"github.com/marrowen/council/internal/council"
	"github.com/marrowen/council/internal/executor"
)

func testModel() Model {
	return NewModel("analyze the cache layer", []constraint.Lens{
		{Name: "the_goal_goldratt", Mandatory: true},
		{Name: "simplicity_hickey"},
	}, true)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return got
}

func TestViewShowsRosterAndMandatoryMarker(t *testing.T) {
	view := testModel().View()
	if !strings.Contains(view, "0/2 members reported") {
		t.Errorf("progress counter missing: %q", view)
	}
	if !strings.Contains(view, "1. the_goal_goldratt *") {
		t.Errorf("mandatory lens not marked: %q", view)
	}
	if !strings.Contains(view, "2. simplicity_hickey") {
		t.Errorf("optional lens missing: %q", view)
	}
	if !strings.Contains(view, "synthesis pending") {
		t.Errorf("synthesis line missing: %q", view)
	}
}

func TestMemberCompletionUpdatesRow(t *testing.T) {
	m := testModel()
	m = update(t, m, MemberDoneMsg{Result: council.MemberResult{
		Slot:    1,
		Lens:    constraint.Lens{Name: "simplicity_hickey"},
		Output:  "ok",
		Elapsed: 3 * time.Second,
	}})

	view := m.View()
	if !strings.Contains(view, "1/2 members reported") {
		t.Errorf("counter not advanced: %q", view)
	}
	if !strings.Contains(view, "✓ 2. simplicity_hickey") {
		t.Errorf("done marker missing: %q", view)
	}
}

func TestMemberFailureUsesFailureMarker(t *testing.T) {
	m := testModel()
	m = update(t, m, MemberDoneMsg{Result: council.MemberResult{
		Slot:    0,
		Lens:    constraint.Lens{Name: "the_goal_goldratt", Mandatory: true},
		Err:     &executor.TimeoutError{Timeout: time.Second},
		Elapsed: time.Second,
	}})

	if !strings.Contains(m.View(), "✗ 1. the_goal_goldratt") {
		t.Errorf("failure marker missing: %q", m.View())
	}
}

func TestSynthesisPhaseAndCompletion(t *testing.T) {
	m := testModel()
	m = update(t, m, SynthesisStartedMsg{})
	if !strings.Contains(m.View(), "synthesizing") {
		t.Errorf("synthesis phase not shown: %q", m.View())
	}

	next, cmd := m.Update(RunDoneMsg{})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("RunDoneMsg must quit the program")
	}
	if m.Aborted() {
		t.Error("normal completion must not read as aborted")
	}
	if m.View() != "" {
		t.Error("finished view must be empty so the report owns the screen")
	}
}

func TestCtrlCAborts(t *testing.T) {
	m := testModel()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("ctrl+c must quit")
	}
	if !m.Aborted() {
		t.Error("ctrl+c must mark the run aborted")
	}
}
