// internal/logging/logger.go
//
// Append-only run log under .council/logs/council.log. Every line carries a
// short run ID so interleaved runs in the same project stay attributable.

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marrowen/council/internal/config"
)

// Logger appends timestamped, run-tagged lines to the project log file.
// A nil Logger is safe to use and discards everything.
type Logger struct {
	file  *os.File
	runID string
}

// New creates (or reuses) the log file for the given project directory and
// assigns the logger a fresh run ID.
func New(projectDir string) (*Logger, error) {
	logDir := filepath.Join(projectDir, config.CouncilDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, "council.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{file: f, runID: shortID()}, nil
}

// RunID returns the identifier stamped on every line of this run.
func (l *Logger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Printf writes a single timestamped line to the log file.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	timestamp := time.Now().Format(time.RFC3339)
	fmt.Fprintf(l.file, "[%s] [%s] %s\n", timestamp, l.runID, line)
}

func shortID() string {
	return uuid.NewString()[:8]
}
