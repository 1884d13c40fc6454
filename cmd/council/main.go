// cmd/council/main.go
//
// Entry point for the council CLI.
//
// Flow:
// 1. Parse flags; handle --install before anything touches the project
// 2. Initialize .council/ and load project config
// 3. Build the roster, preflight the claude binary, then fan out
// 4. Show live progress (TUI) or plain log lines, render the report
//
// Exit codes: 0 on a completed run even if members failed, 1 on usage or
// setup errors, 130 when interrupted.

package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marrowen/council/internal/config"
	"github.com/marrowen/council/internal/console"
	"github.com/marrowen/council/internal/constraint"
	"github.com/marrowen/council/internal/council"
	"github.com/marrowen/council/internal/executor"
	"github.com/marrowen/council/internal/install"
	"github.com/marrowen/council/internal/logging"
	"github.com/marrowen/council/internal/tui"
)

const usageText = `Usage: council [flags] "TASK"

Fan one analysis task out to N concurrent claude sessions, each locked to a
different constraint, then synthesize their findings.

Flags:
  -n, --num N          council members to convene (default 5)
  -t, --timeout SECS   per-call timeout in seconds (default 600)
  -m, --model NAME     model override passed to claude
      --no-synthesize  skip the synthesis pass
      --all            show full member output even when synthesis succeeds
      --plain          line-based progress instead of the live view
      --install        copy this binary to ~/.local/bin and exit
`

type cliFlags struct {
	num          int
	timeout      int
	model        string
	noSynthesize bool
	all          bool
	plain        bool
	install      bool

	set map[string]bool
}

func main() {
	os.Exit(run())
}

func run() int {
	flags, task, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			fmt.Fprint(os.Stderr, usageText)
			return 0
		}
		fmt.Fprintf(os.Stderr, "council: %v\n\n%s", err, usageText)
		return 1
	}

	if flags.install {
		return runInstall()
	}

	if task == "" {
		fmt.Fprintf(os.Stderr, "council: a task is required\n\n%s", usageText)
		return 1
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "council: resolve working directory: %v\n", err)
		return 1
	}
	if err := config.InitCouncilDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "council: initialize %s: %v\n", config.CouncilDir, err)
		return 1
	}
	cfg, err := config.NewConfig(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "council: %v\n", err)
		return 1
	}

	flags.applyConfig(cfg)

	registry, err := constraint.NewRegistry(
		append(constraint.Catalog(), cfg.ExtraLenses()...),
		rand.New(rand.NewSource(time.Now().UnixNano())),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "council: %v\n", err)
		return 1
	}
	selection := registry.Select(flags.num)

	client := &executor.ClaudeClient{}
	if err := client.Preflight(); err != nil {
		fmt.Fprintf(os.Stderr, "council: %v\ncouncil: install the claude CLI and ensure it is on PATH\n", err)
		return 1
	}

	log, err := logging.New(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "council: %v\n", err)
		return 1
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runTask := council.Task{
		Text:       task,
		Timeout:    time.Duration(flags.timeout) * time.Second,
		Model:      flags.model,
		Synthesize: !flags.noSynthesize,
	}

	renderer := console.New(os.Stdout)
	renderer.Header(task, selection)

	var rep *council.Report
	if flags.plain {
		rep, err = runPlain(ctx, client, log, runTask, selection)
	} else {
		rep, err = runWithProgress(ctx, client, log, runTask, selection)
	}
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "council: interrupted")
			return 130
		}
		fmt.Fprintf(os.Stderr, "council: %v\n", err)
		return 1
	}

	renderer.Report(rep, flags.all)
	return 0
}

// runPlain executes the council with line-based progress on stderr, keeping
// stdout clean for the report.
func runPlain(ctx context.Context, client executor.Client, log *logging.Logger, task council.Task, selection []constraint.Lens) (*council.Report, error) {
	observer := func(ev council.Event) {
		switch {
		case ev.Member != nil && ev.Member.Failed():
			fmt.Fprintf(os.Stderr, "member %d (%s) failed: %v\n", ev.Member.Slot+1, ev.Member.Lens.Name, ev.Member.Err)
		case ev.Member != nil:
			fmt.Fprintf(os.Stderr, "member %d (%s) done in %s\n", ev.Member.Slot+1, ev.Member.Lens.Name, ev.Member.Elapsed.Round(time.Second))
		case ev.Phase == council.PhaseSynthesis:
			fmt.Fprintln(os.Stderr, "synthesizing...")
		}
	}
	return council.New(client, council.WithLogger(log), council.WithObserver(observer)).Run(ctx, task, selection)
}

// runWithProgress executes the council behind the live bubbletea view. The
// run itself happens on a background goroutine; results flow into the
// program as messages and the report is collected after the program exits.
func runWithProgress(ctx context.Context, client executor.Client, log *logging.Logger, task council.Task, selection []constraint.Lens) (*council.Report, error) {
	program := tea.NewProgram(tui.NewModel(task.Text, selection, task.Synthesize))

	observer := func(ev council.Event) {
		switch {
		case ev.Member != nil:
			program.Send(tui.MemberDoneMsg{Result: *ev.Member})
		case ev.Phase == council.PhaseSynthesis:
			program.Send(tui.SynthesisStartedMsg{})
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type runOutcome struct {
		rep *council.Report
		err error
	}
	done := make(chan runOutcome, 1)
	go func() {
		rep, err := council.New(client, council.WithLogger(log), council.WithObserver(observer)).Run(runCtx, task, selection)
		done <- runOutcome{rep: rep, err: err}
		program.Send(tui.RunDoneMsg{})
	}()

	final, err := program.Run()
	if err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("progress view: %w", err)
	}
	if model, ok := final.(tui.Model); ok && model.Aborted() {
		cancel()
		<-done
		return nil, context.Canceled
	}

	outcome := <-done
	return outcome.rep, outcome.err
}

func runInstall() int {
	dir, err := install.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "council: %v\n", err)
		return 1
	}
	path, err := install.Self(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "council: %v\n", err)
		return 1
	}
	fmt.Printf("Installed to %s\n", path)
	fmt.Printf("Make sure %s is on your PATH.\n", dir)
	return 0
}

// parseFlags handles both short and long spellings by registering them on
// the same variables, and records which flags were set explicitly so config
// defaults only fill the gaps.
func parseFlags(args []string) (*cliFlags, string, error) {
	flags := &cliFlags{set: map[string]bool{}}

	fs := flag.NewFlagSet("council", flag.ContinueOnError)
	fs.SetOutput(new(nopWriter))
	fs.IntVar(&flags.num, "n", 5, "")
	fs.IntVar(&flags.num, "num", 5, "")
	fs.IntVar(&flags.timeout, "t", 600, "")
	fs.IntVar(&flags.timeout, "timeout", 600, "")
	fs.StringVar(&flags.model, "m", "", "")
	fs.StringVar(&flags.model, "model", "", "")
	fs.BoolVar(&flags.noSynthesize, "no-synthesize", false, "")
	fs.BoolVar(&flags.all, "all", false, "")
	fs.BoolVar(&flags.plain, "plain", false, "")
	fs.BoolVar(&flags.install, "install", false, "")

	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}
	fs.Visit(func(f *flag.Flag) {
		flags.set[canonicalFlagName(f.Name)] = true
	})

	if flags.num < 1 && flags.set["num"] {
		return nil, "", fmt.Errorf("--num must be >= 1")
	}
	if flags.timeout < 1 && flags.set["timeout"] {
		return nil, "", fmt.Errorf("--timeout must be >= 1")
	}

	rest := fs.Args()
	if len(rest) > 1 {
		return nil, "", fmt.Errorf("expected exactly one task argument, got %d", len(rest))
	}
	task := ""
	if len(rest) == 1 {
		task = rest[0]
	}
	return flags, task, nil
}

// applyConfig fills in project defaults for anything the user did not set on
// the command line.
func (f *cliFlags) applyConfig(cfg *config.Config) {
	if !f.set["num"] {
		f.num = cfg.Project.Defaults.Members
	}
	if !f.set["timeout"] {
		f.timeout = cfg.Project.Defaults.TimeoutSeconds
	}
	if !f.set["model"] && cfg.Project.Defaults.Model != "" {
		f.model = cfg.Project.Defaults.Model
	}
	if !f.set["no-synthesize"] && !cfg.Synthesize() {
		f.noSynthesize = true
	}
	if !f.set["plain"] && cfg.Project.Defaults.Plain {
		f.plain = true
	}
}

func canonicalFlagName(name string) string {
	switch name {
	case "n":
		return "num"
	case "t":
		return "timeout"
	case "m":
		return "model"
	}
	return name
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
