// internal/prompt/prompt.go
//
// Pure rendering of the two prompt shapes council sends to the executor:
// one per council member, and one synthesis prompt over all member output.

package prompt

import (
	"fmt"
	"strings"

	"github.com/marrowen/council/internal/constraint"
)

const memberTemplate = `You are a council member analyzing with a specific constraint. There are %d council members, each with different orthogonal constraints.

%s

YOUR TASK:
%s

YOUR OUTPUT REQUIREMENTS:
1. Executive summary (2-3 sentences) from your constraint's perspective ONLY
2. Detailed analysis with specific insights labeled [%s]
3. Recommendations with file paths and line numbers where applicable
4. Risks and trade-offs within your constraint area

Quality over quantity - 5 constraint-specific insights > 20 generic observations.
If your analysis could come from any other constraint, you're doing it WRONG.`

const synthesisTemplate = `You are a master synthesizer analyzing insights from %d council members who each analyzed through different constraints.

YOUR TASK:
Synthesize the following analyses into ONE coherent, actionable recommendation.

ORIGINAL TASK:
%s

COUNCIL ANALYSES:
%s

YOUR SYNTHESIS REQUIREMENTS:

1. EXECUTIVE SUMMARY (3-4 sentences)
   - What's the core issue?
   - What's the recommended solution?
   - What's the expected impact?

2. CONSOLIDATED FINDINGS
   - Identify common themes across multiple constraints
   - Highlight unique insights from specific constraints
   - Resolve any conflicting recommendations (explain which to prioritize and why)

3. PRIORITIZED ACTION PLAN
   - List specific changes in priority order (P0/P1/P2)
   - For each item: file:line, what to change, why, expected impact
   - Include concrete code snippets where applicable

4. RISKS & TRADE-OFFS
   - What are we trading off?
   - What could go wrong?
   - How to mitigate?

5. IMPLEMENTATION ROADMAP
   - What order to tackle changes?
   - What dependencies exist?

Be concise but specific. The goal is ONE clear path forward, not multiple options.
Focus on ACTIONABLE recommendations with clear next steps.`

const analysisRule = "═══════════════════════════════════════════════════════════════"

// Analysis is one completed member output, already in slot order. The type
// is local so the council package can depend on prompt without a cycle.
type Analysis struct {
	Slot int
	Lens string
	Text string
}

// Member renders the prompt for one council member. It embeds the council
// size, the lens constraint verbatim, the task verbatim, and the labeling
// instructions that keep members from drifting into generic output.
func Member(lens constraint.Lens, task string, memberCount int) string {
	return fmt.Sprintf(memberTemplate, memberCount, lens.Prompt, task, lens.Name)
}

// Synthesis renders the reduction prompt over every member analysis. The
// analyses must already be in slot order; each one is delimited and
// attributed to its lens. No truncation happens here - the prompt grows
// linearly with member count and output size.
func Synthesis(analyses []Analysis, task string) string {
	blocks := make([]string, 0, len(analyses))
	for _, a := range analyses {
		blocks = append(blocks, fmt.Sprintf("%s\nMEMBER #%d: %s\n%s\n\n%s",
			analysisRule, a.Slot+1, strings.ToUpper(a.Lens), analysisRule, a.Text))
	}
	return fmt.Sprintf(synthesisTemplate, len(analyses), task, strings.Join(blocks, "\n\n"))
}
