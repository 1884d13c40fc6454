package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/marrowen/council/internal/constraint"
)

func TestMemberEmbedsEverything(t *testing.T) {
	lens := constraint.Lens{Name: "waste_ohno", Prompt: "CONSTRAINT: waste only."}
	task := "refactor module X"
	out := Member(lens, task, 5)

	if !strings.Contains(out, "There are 5 council members") {
		t.Errorf("member count missing:\n%s", out)
	}
	if !strings.Contains(out, lens.Prompt) {
		t.Error("lens constraint text missing")
	}
	if !strings.Contains(out, task) {
		t.Error("task text missing")
	}
	if !strings.Contains(out, "labeled [waste_ohno]") {
		t.Error("labeling instruction missing")
	}
}

func TestSynthesisContainsEveryAnalysisOnceInSlotOrder(t *testing.T) {
	analyses := []Analysis{
		{Slot: 0, Lens: "alpha", Text: "alpha findings"},
		{Slot: 1, Lens: "bravo", Text: "bravo findings"},
		{Slot: 2, Lens: "charlie", Text: "charlie findings"},
	}
	out := Synthesis(analyses, "harden the parser")

	if !strings.Contains(out, "insights from 3 council members") {
		t.Error("result count missing")
	}
	if !strings.Contains(out, "harden the parser") {
		t.Error("original task missing")
	}

	last := -1
	for i, a := range analyses {
		header := fmt.Sprintf("MEMBER #%d: %s", i+1, strings.ToUpper(a.Lens))
		if strings.Count(out, header) != 1 {
			t.Fatalf("header %q appears %d times", header, strings.Count(out, header))
		}
		if strings.Count(out, a.Text) != 1 {
			t.Fatalf("text for %q appears %d times", a.Lens, strings.Count(out, a.Text))
		}
		pos := strings.Index(out, header)
		if pos <= last {
			t.Fatalf("analysis %q out of slot order", a.Lens)
		}
		last = pos
	}
}

func TestSynthesisListsRequiredSections(t *testing.T) {
	out := Synthesis([]Analysis{{Slot: 0, Lens: "alpha", Text: "x"}}, "t")
	for _, section := range []string{
		"EXECUTIVE SUMMARY",
		"CONSOLIDATED FINDINGS",
		"PRIORITIZED ACTION PLAN",
		"RISKS & TRADE-OFFS",
		"IMPLEMENTATION ROADMAP",
	} {
		if !strings.Contains(out, section) {
			t.Errorf("section %q missing from synthesis prompt", section)
		}
	}
}
