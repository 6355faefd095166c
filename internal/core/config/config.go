// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-09
// Last Modified: 2026-03-18

// Package config handles loading and merging simili-triage configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	// Repository is the "owner/repo" this run operates on.
	// Falls back to the GITHUB_REPOSITORY environment variable.
	Repository string `yaml:"repository,omitempty"`

	// Token is the GitHub credential. Usually left empty in the file
	// and supplied via the GITHUB_TOKEN environment variable.
	Token string `yaml:"token,omitempty"`

	// Workflow is a preset workflow name (e.g., "issue-intake").
	Workflow string `yaml:"workflow,omitempty"`

	// Steps is a custom list of pipeline steps (overrides workflow).
	Steps []string `yaml:"steps,omitempty"`

	// Sections defines the required issue body sections. When empty,
	// a built-in default template is used.
	Sections []SectionConfig `yaml:"sections,omitempty"`

	// Defaults contains default behavior settings.
	Defaults DefaultsConfig `yaml:"defaults"`

	// BotUsers lists additional usernames treated as bots.
	BotUsers []string `yaml:"bot_users,omitempty"`
}

// SectionConfig defines one expected section of the issue body.
type SectionConfig struct {
	// Name is the section heading, matched case-insensitively.
	Name string `yaml:"name"`

	// Pattern is an optional regular expression the section content
	// must match.
	Pattern string `yaml:"pattern,omitempty"`

	// Required marks the section as mandatory.
	Required bool `yaml:"required"`
}

// DefaultsConfig holds default behavior settings.
type DefaultsConfig struct {
	// DuplicateThreshold is the inclusive similarity score (0-100) at
	// which an issue is considered a duplicate.
	DuplicateThreshold float64 `yaml:"duplicate_threshold"`

	// Assignees is how many collaborators to assign on the success path.
	Assignees int `yaml:"assignees"`

	// TemplatesDir overrides the embedded comment templates.
	// Falls back to the TEMPLATES_DIR environment variable.
	TemplatesDir string `yaml:"templates_dir,omitempty"`

	// ProcessedLabel is the sentinel label marking handled issues so a
	// retriggered event does not comment twice.
	ProcessedLabel string `yaml:"processed_label"`

	// LeaveOpenOnInvalid keeps template-invalid issues open instead of
	// closing them after the outcome comment.
	LeaveOpenOnInvalid bool `yaml:"leave_open_on_invalid"`

	// LeaveOpenOnDuplicate keeps duplicate issues open instead of
	// closing them after the outcome comment.
	LeaveOpenOnDuplicate bool `yaml:"leave_open_on_duplicate"`
}

// defaults returns the baseline config. File and environment values are
// merged over it, so an explicit zero in the file (e.g. a duplicate
// threshold of 0) is preserved rather than mistaken for unset.
func defaults() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			DuplicateThreshold: 80,
			Assignees:          1,
			ProcessedLabel:     "triage:processed",
		},
	}
}

// Load reads a config file from the given path and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	cfg := defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromEnv builds a config entirely from the environment. Used when no
// config file is present, which is the common GitHub Actions setup.
func FromEnv() (*Config, error) {
	cfg := defaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	// Search in common locations
	candidates := []string{
		".github/triage.yaml",
		".github/triage.yml",
		".triage.yaml",
		".triage.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// applyEnv fills unset fields from the GitHub Actions environment.
// DUPLICATE_THRESHOLD, being the action's runtime knob, overrides the
// file value when set; a value that does not parse is a configuration
// error, not something to ignore.
func (c *Config) applyEnv() error {
	if c.Token == "" {
		c.Token = os.Getenv("GITHUB_TOKEN")
	}
	if c.Repository == "" {
		c.Repository = os.Getenv("GITHUB_REPOSITORY")
	}
	if c.Defaults.TemplatesDir == "" {
		c.Defaults.TemplatesDir = os.Getenv("TEMPLATES_DIR")
	}
	if raw, ok := os.LookupEnv("DUPLICATE_THRESHOLD"); ok && raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid DUPLICATE_THRESHOLD %q: %w", raw, err)
		}
		c.Defaults.DuplicateThreshold = v
	}
	return nil
}

// Validate checks that the config is usable for a live run.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("missing GitHub token (set GITHUB_TOKEN or the token config field)")
	}
	if c.Repository == "" {
		return fmt.Errorf("missing repository (set GITHUB_REPOSITORY or the repository config field)")
	}
	if _, _, err := SplitRepository(c.Repository); err != nil {
		return err
	}
	if c.Defaults.DuplicateThreshold < 0 || c.Defaults.DuplicateThreshold > 100 {
		return fmt.Errorf("duplicate_threshold must be between 0 and 100, got %v", c.Defaults.DuplicateThreshold)
	}
	if c.Defaults.Assignees < 0 {
		return fmt.Errorf("assignees must be non-negative, got %d", c.Defaults.Assignees)
	}
	return nil
}

// Org returns the owner part of Repository.
func (c *Config) Org() string {
	org, _, _ := SplitRepository(c.Repository)
	return org
}

// Repo returns the name part of Repository.
func (c *Config) Repo() string {
	_, repo, _ := SplitRepository(c.Repository)
	return repo
}

// SplitRepository parses "owner/repo" into components.
func SplitRepository(full string) (org, repo string, err error) {
	parts := strings.Split(full, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q (expected owner/repo)", full)
	}
	return parts[0], parts[1], nil
}
