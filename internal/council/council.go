// internal/council/council.go
//
// The orchestrator. Fans one task out to every selected lens concurrently,
// collects exactly one result per slot, restores slot order, then optionally
// runs a single synthesis pass over the combined output.

package council

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/marrowen/council/internal/constraint"
	"github.com/marrowen/council/internal/executor"
	"github.com/marrowen/council/internal/logging"
	"github.com/marrowen/council/internal/prompt"
)

// Task is one full council run request.
type Task struct {
	// Text is the user's analysis task, passed to every member verbatim.
	Text string

	// Timeout bounds each individual executor call, member and synthesis
	// alike. It is not a whole-run budget.
	Timeout time.Duration

	// Model optionally overrides the executor's default model.
	Model string

	// Synthesize controls whether the reduction pass runs after collection.
	Synthesize bool
}

// MemberResult is the outcome of one member slot. Exactly one exists per
// selected lens, failed or not.
type MemberResult struct {
	Slot    int
	Lens    constraint.Lens
	Output  string
	Err     error
	Elapsed time.Duration
}

// Failed reports whether the member's executor call errored. Failed members
// still carry placeholder Output so downstream rendering and synthesis never
// have to special-case them.
func (r MemberResult) Failed() bool {
	return r.Err != nil
}

// SynthesisResult is the outcome of the optional reduction pass.
type SynthesisResult struct {
	Output  string
	Err     error
	Elapsed time.Duration
}

// Report is everything one run produced, members already in slot order.
type Report struct {
	RunID     string
	Members   []MemberResult
	Synthesis *SynthesisResult

	// MemberElapsed is the wall-clock span of the concurrent member phase,
	// bounded by the slowest member rather than the sum.
	MemberElapsed    time.Duration
	SynthesisElapsed time.Duration
}

// Failures counts the member slots that errored.
func (r *Report) Failures() int {
	n := 0
	for _, m := range r.Members {
		if m.Failed() {
			n++
		}
	}
	return n
}

// Phase identifies where a run currently is.
type Phase int

const (
	PhaseMembers Phase = iota
	PhaseSynthesis
	PhaseDone
)

// Event notifies an observer of per-slot progress. MemberDone events carry
// the finished result; phase transitions carry only the phase.
type Event struct {
	Phase  Phase
	Member *MemberResult
}

// Council runs tasks against an executor.
type Council struct {
	exec     executor.Client
	log      *logging.Logger
	observer func(Event)
}

// Option configures a Council.
type Option func(*Council)

// WithLogger attaches the run log.
func WithLogger(log *logging.Logger) Option {
	return func(c *Council) { c.log = log }
}

// WithObserver registers a progress callback. It is invoked from collector
// goroutine context; implementations must be safe to call concurrently with
// the caller of Run.
func WithObserver(fn func(Event)) Option {
	return func(c *Council) { c.observer = fn }
}

// New creates a Council over the given executor.
func New(exec executor.Client, opts ...Option) *Council {
	c := &Council{exec: exec}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the task against every lens in selection. Slot i corresponds
// to selection[i]. Every slot produces exactly one MemberResult; member
// failures are isolated and never abort siblings. Synthesis starts only after
// every member has reported.
func (c *Council) Run(ctx context.Context, task Task, selection []constraint.Lens) (*Report, error) {
	if len(selection) == 0 {
		return nil, fmt.Errorf("council: empty selection")
	}

	report := &Report{RunID: c.log.RunID()}
	c.logf("run start: members=%d timeout=%s synthesize=%t", len(selection), task.Timeout, task.Synthesize)

	memberStart := time.Now()
	results := make(chan MemberResult, len(selection))
	for slot, lens := range selection {
		go c.runMember(ctx, task, slot, lens, len(selection), results)
	}

	report.Members = make([]MemberResult, 0, len(selection))
	for range selection {
		res := <-results
		if res.Failed() {
			c.logf("member %d (%s) failed after %s: %v", res.Slot, res.Lens.Name, res.Elapsed.Round(time.Millisecond), res.Err)
		} else {
			c.logf("member %d (%s) done in %s (%d bytes)", res.Slot, res.Lens.Name, res.Elapsed.Round(time.Millisecond), len(res.Output))
		}
		report.Members = append(report.Members, res)
		c.notify(Event{Phase: PhaseMembers, Member: &report.Members[len(report.Members)-1]})
	}
	report.MemberElapsed = time.Since(memberStart)

	sort.Slice(report.Members, func(i, j int) bool {
		return report.Members[i].Slot < report.Members[j].Slot
	})

	if ctx.Err() != nil {
		return report, fmt.Errorf("council: %w", ctx.Err())
	}

	if task.Synthesize {
		c.notify(Event{Phase: PhaseSynthesis})
		report.Synthesis = c.runSynthesis(ctx, task, report.Members)
		report.SynthesisElapsed = report.Synthesis.Elapsed
	}

	c.notify(Event{Phase: PhaseDone})
	c.logf("run complete: failures=%d member_elapsed=%s synthesis_elapsed=%s",
		report.Failures(), report.MemberElapsed.Round(time.Millisecond), report.SynthesisElapsed.Round(time.Millisecond))
	return report, nil
}

func (c *Council) runMember(ctx context.Context, task Task, slot int, lens constraint.Lens, total int, results chan<- MemberResult) {
	start := time.Now()
	out, err := c.exec.Execute(ctx, executor.Request{
		Prompt:  prompt.Member(lens, task.Text, total),
		Timeout: task.Timeout,
		Model:   task.Model,
	})
	res := MemberResult{
		Slot:    slot,
		Lens:    lens,
		Output:  out,
		Err:     err,
		Elapsed: time.Since(start),
	}
	if err != nil {
		res.Output = fmt.Sprintf("[member %d (%s) failed: %v]", slot, lens.Name, err)
	}
	results <- res
}

func (c *Council) runSynthesis(ctx context.Context, task Task, members []MemberResult) *SynthesisResult {
	analyses := make([]prompt.Analysis, 0, len(members))
	for _, m := range members {
		analyses = append(analyses, prompt.Analysis{
			Slot: m.Slot,
			Lens: m.Lens.Name,
			Text: m.Output,
		})
	}

	start := time.Now()
	out, err := c.exec.Execute(ctx, executor.Request{
		Prompt:  prompt.Synthesis(analyses, task.Text),
		Timeout: task.Timeout,
		Model:   task.Model,
	})
	res := &SynthesisResult{Output: out, Err: err, Elapsed: time.Since(start)}
	if err != nil {
		c.logf("synthesis failed after %s: %v", res.Elapsed.Round(time.Millisecond), err)
	} else {
		c.logf("synthesis done in %s (%d bytes)", res.Elapsed.Round(time.Millisecond), len(out))
	}
	return res
}

func (c *Council) notify(ev Event) {
	if c.observer != nil {
		c.observer(ev)
	}
}

func (c *Council) logf(format string, args ...any) {
	c.log.Printf(format, args...)
}
