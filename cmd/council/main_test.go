package main

import (
	"testing"

	"github.com/marrowen/council/internal/config"
)

func TestParseFlagsDefaults(t *testing.T) {
	flags, task, err := parseFlags([]string{"review the scheduler"})
	if err != nil {
		t.Fatalf("parseFlags returned error: %v", err)
	}
	if task != "review the scheduler" {
		t.Errorf("task = %q", task)
	}
	if flags.num != 5 || flags.timeout != 600 {
		t.Errorf("defaults wrong: num=%d timeout=%d", flags.num, flags.timeout)
	}
	if flags.noSynthesize || flags.all || flags.plain || flags.install {
		t.Error("boolean flags must default to false")
	}
}

func TestParseFlagsShortAndLongSpellings(t *testing.T) {
	short, _, err := parseFlags([]string{"-n", "3", "-t", "30", "-m", "opus", "task"})
	if err != nil {
		t.Fatalf("short spellings: %v", err)
	}
	long, _, err := parseFlags([]string{"--num", "3", "--timeout", "30", "--model", "opus", "task"})
	if err != nil {
		t.Fatalf("long spellings: %v", err)
	}
	if short.num != long.num || short.timeout != long.timeout || short.model != long.model {
		t.Errorf("short %+v != long %+v", short, long)
	}
	if short.num != 3 || short.timeout != 30 || short.model != "opus" {
		t.Errorf("values not parsed: %+v", short)
	}
}

func TestParseFlagsRejectsBadValues(t *testing.T) {
	if _, _, err := parseFlags([]string{"-n", "0", "task"}); err == nil {
		t.Error("expected error for -n 0")
	}
	if _, _, err := parseFlags([]string{"-t", "-5", "task"}); err == nil {
		t.Error("expected error for negative timeout")
	}
	if _, _, err := parseFlags([]string{"one", "two"}); err == nil {
		t.Error("expected error for multiple task arguments")
	}
}

func TestParseFlagsAllowsMissingTask(t *testing.T) {
	// --install is valid without a task; the caller decides.
	flags, task, err := parseFlags([]string{"--install"})
	if err != nil {
		t.Fatalf("parseFlags returned error: %v", err)
	}
	if !flags.install {
		t.Error("--install not set")
	}
	if task != "" {
		t.Errorf("unexpected task: %q", task)
	}
}

func TestApplyConfigFillsOnlyUnsetFlags(t *testing.T) {
	cfg, err := config.NewConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg.Project.Defaults.Members = 9
	cfg.Project.Defaults.TimeoutSeconds = 42
	cfg.Project.Defaults.Model = "opus"
	off := false
	cfg.Project.Defaults.Synthesize = &off

	// Explicit -n wins; everything else comes from config.
	flags, _, err := parseFlags([]string{"-n", "2", "task"})
	if err != nil {
		t.Fatal(err)
	}
	flags.applyConfig(cfg)

	if flags.num != 2 {
		t.Errorf("explicit -n overridden: %d", flags.num)
	}
	if flags.timeout != 42 {
		t.Errorf("timeout default not applied: %d", flags.timeout)
	}
	if flags.model != "opus" {
		t.Errorf("model default not applied: %q", flags.model)
	}
	if !flags.noSynthesize {
		t.Error("synthesize: false in config not applied")
	}
}
