// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-09
// Last Modified: 2026-03-18

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "triage.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
repository: octo/widgets
token: t0ken
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Defaults.DuplicateThreshold != 80 {
		t.Errorf("expected default threshold 80, got %v", cfg.Defaults.DuplicateThreshold)
	}
	if cfg.Defaults.Assignees != 1 {
		t.Errorf("expected default assignees 1, got %d", cfg.Defaults.Assignees)
	}
	if cfg.Defaults.ProcessedLabel != "triage:processed" {
		t.Errorf("unexpected default processed label %q", cfg.Defaults.ProcessedLabel)
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TRIAGE_TEST_TOKEN", "expanded-token")
	path := writeConfig(t, `
repository: octo/widgets
token: ${TRIAGE_TEST_TOKEN}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Token != "expanded-token" {
		t.Errorf("expected env expansion, got %q", cfg.Token)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("GITHUB_REPOSITORY", "octo/widgets")
	t.Setenv("DUPLICATE_THRESHOLD", "65")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Token != "env-token" {
		t.Errorf("expected token from env, got %q", cfg.Token)
	}
	if cfg.Repository != "octo/widgets" {
		t.Errorf("expected repository from env, got %q", cfg.Repository)
	}
	if cfg.Defaults.DuplicateThreshold != 65 {
		t.Errorf("expected threshold 65, got %v", cfg.Defaults.DuplicateThreshold)
	}
	if cfg.Org() != "octo" || cfg.Repo() != "widgets" {
		t.Errorf("unexpected split: %q/%q", cfg.Org(), cfg.Repo())
	}
}

func TestLoadKeepsExplicitZeroThreshold(t *testing.T) {
	path := writeConfig(t, `
repository: octo/widgets
token: t0ken
defaults:
  duplicate_threshold: 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Defaults.DuplicateThreshold != 0 {
		t.Errorf("explicit threshold 0 must not be rewritten, got %v", cfg.Defaults.DuplicateThreshold)
	}
}

func TestFromEnvZeroThreshold(t *testing.T) {
	t.Setenv("DUPLICATE_THRESHOLD", "0")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.DuplicateThreshold != 0 {
		t.Errorf("DUPLICATE_THRESHOLD=0 must yield threshold 0, got %v", cfg.Defaults.DuplicateThreshold)
	}
}

func TestFromEnvRejectsMalformedThreshold(t *testing.T) {
	t.Setenv("DUPLICATE_THRESHOLD", "eighty")

	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for malformed DUPLICATE_THRESHOLD")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.Token = "" }, wantErr: true},
		{name: "missing repository", mutate: func(c *Config) { c.Repository = "" }, wantErr: true},
		{name: "malformed repository", mutate: func(c *Config) { c.Repository = "justaname" }, wantErr: true},
		{name: "threshold too high", mutate: func(c *Config) { c.Defaults.DuplicateThreshold = 101 }, wantErr: true},
		{name: "threshold too low", mutate: func(c *Config) { c.Defaults.DuplicateThreshold = -1 }, wantErr: true},
		{name: "negative assignees", mutate: func(c *Config) { c.Defaults.Assignees = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			cfg.Repository = "octo/widgets"
			cfg.Token = "t0ken"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSplitRepository(t *testing.T) {
	tests := []struct {
		input   string
		org     string
		repo    string
		wantErr bool
	}{
		{input: "octo/widgets", org: "octo", repo: "widgets"},
		{input: "nosplash", wantErr: true},
		{input: "/widgets", wantErr: true},
		{input: "octo/", wantErr: true},
		{input: "a/b/c", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			org, repo, err := SplitRepository(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if org != tt.org || repo != tt.repo {
				t.Fatalf("got %q/%q, want %q/%q", org, repo, tt.org, tt.repo)
			}
		})
	}
}
