// internal/config/config.go
//
// This package handles configuration and the .council directory structure.
// Every project that runs council gets a .council/ folder in its root with a
// config.yaml for defaults and any project-defined lenses.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/marrowen/council/internal/constraint"
)

const (
	// CouncilDir is the name of the directory created in each project.
	CouncilDir = ".council"

	defaultMembers        = 5
	defaultTimeoutSeconds = 600
)

const defaultProjectConfigYAML = `# council project configuration
version: 1

# Defaults applied when the matching flag is not passed.
defaults:
  members: 5
  timeout_seconds: 600
  # model: sonnet
  synthesize: true
  plain: false

# Project-defined lenses, appended after the built-in catalog.
# lenses:
#   - name: security_schneier
#     mandatory: false
#     prompt: |
#       CONSTRAINT: Analyze ONLY attack surface, trust boundaries and
#       failure modes an adversary can trigger. Ignore features.
`

// Defaults holds the run parameters applied when no flag overrides them.
type Defaults struct {
	Members        int    `yaml:"members"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Model          string `yaml:"model,omitempty"`
	Synthesize     *bool  `yaml:"synthesize,omitempty"`
	Plain          bool   `yaml:"plain,omitempty"`
}

// LensSpec declares one project-defined lens inside config.yaml.
type LensSpec struct {
	Name      string `yaml:"name"`
	Prompt    string `yaml:"prompt"`
	Mandatory bool   `yaml:"mandatory,omitempty"`
}

// ProjectConfig models .council/config.yaml.
type ProjectConfig struct {
	Version  int        `yaml:"version"`
	Defaults Defaults   `yaml:"defaults"`
	Lenses   []LensSpec `yaml:"lenses,omitempty"`
}

// Config holds the runtime configuration for council.
type Config struct {
	// ProjectDir is the directory the user ran `council` from.
	ProjectDir string

	// CouncilProjectDir is ProjectDir/.council.
	CouncilProjectDir string

	Project ProjectConfig
}

// InitCouncilDir creates the .council directory structure and seeds a
// commented config.yaml on first use.
func InitCouncilDir(projectDir string) error {
	councilDir := filepath.Join(projectDir, CouncilDir)
	if err := os.MkdirAll(filepath.Join(councilDir, "logs"), 0o755); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(councilDir, "config.yaml"))
}

// NewConfig loads the project configuration, falling back to defaults when
// no config.yaml exists.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:        projectDir,
		CouncilProjectDir: filepath.Join(projectDir, CouncilDir),
		Project:           defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.CouncilProjectDir, "logs")
}

// ProjectConfigPath returns the on-disk location of the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.CouncilProjectDir, "config.yaml")
}

// Synthesize reports whether synthesis is enabled by default.
func (c *Config) Synthesize() bool {
	if c.Project.Defaults.Synthesize == nil {
		return true
	}
	return *c.Project.Defaults.Synthesize
}

// ExtraLenses converts the project-defined lens specs into catalog entries.
func (c *Config) ExtraLenses() []constraint.Lens {
	if len(c.Project.Lenses) == 0 {
		return nil
	}
	out := make([]constraint.Lens, 0, len(c.Project.Lenses))
	for _, spec := range c.Project.Lenses {
		out = append(out, constraint.Lens{
			Name:      spec.Name,
			Prompt:    spec.Prompt,
			Mandatory: spec.Mandatory,
		})
	}
	return out
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Defaults: Defaults{
			Members:        defaultMembers,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Defaults.Members == 0 {
		pc.Defaults.Members = defaultMembers
	}
	if pc.Defaults.TimeoutSeconds == 0 {
		pc.Defaults.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Defaults.Model = strings.TrimSpace(pc.Defaults.Model)
	for i := range pc.Lenses {
		pc.Lenses[i].Name = strings.TrimSpace(pc.Lenses[i].Name)
		pc.Lenses[i].Prompt = strings.TrimSpace(pc.Lenses[i].Prompt)
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Defaults.Members < 1 {
		return fmt.Errorf("defaults.members must be >= 1")
	}
	if pc.Defaults.TimeoutSeconds < 1 {
		return fmt.Errorf("defaults.timeout_seconds must be >= 1")
	}
	seen := make(map[string]struct{}, len(pc.Lenses))
	for i, lens := range pc.Lenses {
		if lens.Name == "" {
			return fmt.Errorf("lenses[%d]: name is required", i)
		}
		if lens.Prompt == "" {
			return fmt.Errorf("lenses[%d]: prompt is required", i)
		}
		if _, dup := seen[lens.Name]; dup {
			return fmt.Errorf("lenses[%d]: duplicate name %q", i, lens.Name)
		}
		seen[lens.Name] = struct{}{}
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
