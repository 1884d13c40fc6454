// internal/executor/claude.go
//
// The boundary to the external analysis capability. Council only depends on
// the Client contract; the default implementation shells out to the claude
// CLI with a per-call deadline and an output-size ceiling.

package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// MaxOutputBytes caps the combined stdout+stderr captured from one call.
// Output beyond the cap is dropped and replaced with a truncation notice.
const MaxOutputBytes = 500_000

const (
	defaultBinary = "claude"
	stderrMarker  = "\n[stderr]: "
)

// Request describes a single analysis invocation.
type Request struct {
	Prompt  string
	Timeout time.Duration
	Model   string
}

// Client is the executor contract: one attempt, no retries. The returned
// text is capped at MaxOutputBytes.
type Client interface {
	Execute(ctx context.Context, req Request) (string, error)
}

// TimeoutError reports that the call's own deadline elapsed before the
// external capability returned. The underlying process is killed.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s", e.Timeout)
}

// UnavailableError reports that the capability could not be invoked at all,
// e.g. a missing binary or a spawn failure.
type UnavailableError struct {
	Detail string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("claude unavailable: %s", e.Detail)
}

// ClaudeClient runs prompts through the claude CLI in print mode.
type ClaudeClient struct {
	// Binary overrides the executable name, mostly for tests.
	Binary string
}

func (c *ClaudeClient) binary() string {
	if c != nil && c.Binary != "" {
		return c.Binary
	}
	return defaultBinary
}

// Preflight verifies the claude binary is reachable on PATH. Callers run
// this once before fanning out so an unreachable binary fails fast instead
// of N times.
func (c *ClaudeClient) Preflight() error {
	if _, err := exec.LookPath(c.binary()); err != nil {
		return &UnavailableError{Detail: err.Error()}
	}
	return nil
}

// Execute runs one prompt under the request's timeout. Stdout and stderr are
// captured separately and recombined with a marker so diagnostic output stays
// distinguishable. A nonzero exit still yields the captured text - the
// analysis often arrives even when the CLI exits unhappily - while spawn
// failures and deadline hits surface as typed errors.
func (c *ClaudeClient) Execute(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	args := []string{"-p", req.Prompt, "--output-format", "text", "--dangerously-skip-permissions"}
	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}

	cmd := exec.CommandContext(ctx, c.binary(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "", &TimeoutError{Timeout: req.Timeout}
	case ctx.Err() != nil:
		return "", fmt.Errorf("executor: %w", ctx.Err())
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return "", &UnavailableError{Detail: runErr.Error()}
		}
		// Exited nonzero: fall through with whatever it wrote.
	}

	combined := stdout.Bytes()
	if stderr.Len() > 0 {
		combined = append(combined, []byte(stderrMarker)...)
		combined = append(combined, stderr.Bytes()...)
	}
	return Truncate(string(combined)), nil
}

// Truncate enforces the output cap, appending a human-readable notice when
// anything was dropped. Truncating an already-capped string is a no-op.
func Truncate(s string) string {
	if len(s) <= MaxOutputBytes {
		return s
	}
	return fmt.Sprintf("%s\n\n[Output truncated at %dKB]", s[:MaxOutputBytes], MaxOutputBytes/1000)
}
