// internal/install/install.go
//
// Self-installation: copy the running binary into a directory on PATH so
// `council` works from any project.

package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const binaryName = "council"

// DefaultDir returns the conventional per-user binary directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("install: resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "bin"), nil
}

// Self copies the currently running executable into dir, returning the
// installed path. The destination is replaced if it already exists.
func Self(dir string) (string, error) {
	src, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("install: locate running binary: %w", err)
	}
	return Binary(src, dir)
}

// Binary copies src into dir under the canonical binary name with execute
// permissions. The copy goes through a temp file in the destination
// directory so a crash mid-copy never leaves a half-written binary on PATH.
func Binary(src, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("install: create %s: %w", dir, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("install: open source binary: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(dir, binaryName+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("install: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("install: copy binary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("install: flush binary: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o755); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("install: set permissions: %w", err)
	}

	dest := filepath.Join(dir, binaryName)
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("install: move into place: %w", err)
	}
	return dest, nil
}
