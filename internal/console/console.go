// internal/console/console.go
//
// Plain-terminal rendering of a council run: the roster banner up front and
// the report after. This is the non-interactive sibling of internal/tui; both
// consume the same Report.

package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/marrowen/council/internal/constraint"
	"github.com/marrowen/council/internal/council"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	rosterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5B8DEF"))

	mandatoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F5C14B"))

	memberHeadStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))

	failedHeadStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	synthesisHeadStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#7BD88F"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))
)

const ruleWidth = 63

// Renderer writes run output to a terminal-ish writer.
type Renderer struct {
	out io.Writer
}

// New creates a Renderer over the given writer.
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Header prints the pre-run banner: the task and the convened roster, with
// mandatory lenses marked.
func (r *Renderer) Header(task string, selection []constraint.Lens) {
	fmt.Fprintln(r.out, headerStyle.Render(fmt.Sprintf("⬡ COUNCIL · %d members convened", len(selection))))
	fmt.Fprintln(r.out, dimStyle.Render("Task: ")+truncateLine(task, 120))
	for i, lens := range selection {
		label := fmt.Sprintf("  %d. %s", i+1, lens.Name)
		if lens.Mandatory {
			fmt.Fprintln(r.out, mandatoryStyle.Render(label+" *"))
		} else {
			fmt.Fprintln(r.out, rosterStyle.Render(label))
		}
	}
	fmt.Fprintln(r.out)
}

// Report prints the full run report. Member bodies are shown only when
// showAll is set or no synthesis output exists; otherwise each member gets a
// one-line status and the synthesis carries the content.
func (r *Renderer) Report(rep *council.Report, showAll bool) {
	expand := showAll || rep.Synthesis == nil || rep.Synthesis.Err != nil

	for _, m := range rep.Members {
		r.member(m, expand)
	}

	if rep.Synthesis != nil {
		r.synthesis(rep.Synthesis)
	}

	r.footer(rep)
}

func (r *Renderer) member(m council.MemberResult, expand bool) {
	head := fmt.Sprintf("MEMBER #%d · %s · %s", m.Slot+1, strings.ToUpper(m.Lens.Name), m.Elapsed.Round(time.Second))
	if m.Failed() {
		fmt.Fprintln(r.out, failedHeadStyle.Render(head+" · FAILED"))
		fmt.Fprintln(r.out, dimStyle.Render("  "+m.Err.Error()))
		fmt.Fprintln(r.out)
		return
	}
	if !expand {
		fmt.Fprintln(r.out, memberHeadStyle.Render(head+" · ok"))
		return
	}
	fmt.Fprintln(r.out, rule())
	fmt.Fprintln(r.out, memberHeadStyle.Render(head))
	fmt.Fprintln(r.out, rule())
	fmt.Fprintln(r.out, m.Output)
	fmt.Fprintln(r.out)
}

func (r *Renderer) synthesis(s *council.SynthesisResult) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, rule())
	if s.Err != nil {
		fmt.Fprintln(r.out, failedHeadStyle.Render("SYNTHESIS · FAILED"))
		fmt.Fprintln(r.out, rule())
		fmt.Fprintln(r.out, dimStyle.Render(s.Err.Error()))
		return
	}
	fmt.Fprintln(r.out, synthesisHeadStyle.Render("SYNTHESIS"))
	fmt.Fprintln(r.out, rule())
	fmt.Fprintln(r.out, s.Output)
}

func (r *Renderer) footer(rep *council.Report) {
	parts := []string{
		fmt.Sprintf("run %s", rep.RunID),
		fmt.Sprintf("members %s", rep.MemberElapsed.Round(time.Second)),
	}
	if rep.Synthesis != nil {
		parts = append(parts, fmt.Sprintf("synthesis %s", rep.SynthesisElapsed.Round(time.Second)))
	}
	if failures := rep.Failures(); failures > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failures))
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, dimStyle.Render(strings.Join(parts, " · ")))
}

func rule() string {
	return ruleStyle.Render(strings.Repeat("═", ruleWidth))
}

func truncateLine(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
