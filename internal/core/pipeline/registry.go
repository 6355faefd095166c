// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-09
// Last Modified: 2026-03-14

// Package pipeline provides step registration and preset workflow building.
package pipeline

import (
	"fmt"
	"sync"

	"github.com/similigh/simili-triage/internal/comments"
	"github.com/similigh/simili-triage/internal/integrations/github"
)

// Registry holds registered step factories.
// Step factories create Step instances, allowing for dependency injection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StepFactory
}

// StepFactory is a function that creates a Step.
// It receives dependencies (like clients, config) as parameters.
type StepFactory func(deps *Dependencies) (Step, error)

// Dependencies holds the dependencies that can be injected into steps.
type Dependencies struct {
	// GitHub is the authenticated API client. Steps that only need a
	// slice of its surface declare their own narrow interfaces.
	GitHub *github.Client

	// Renderer produces outcome comments from templates.
	Renderer *comments.Renderer

	// DryRun disables all mutations (comments, labels, assignment, close).
	DryRun bool

	// RunID is the correlation id for this invocation. It is embedded
	// in the outcome comment marker and in log lines.
	RunID string
}

// NewRegistry creates a new step registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]StepFactory),
	}
}

// Register adds a step factory to the registry.
func (r *Registry) Register(name string, factory StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a step factory by name.
func (r *Registry) Get(name string) (StepFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// BuildFromNames creates a pipeline from a list of step names.
func (r *Registry) BuildFromNames(names []string, deps *Dependencies) (*Pipeline, error) {
	var steps []Step
	for _, name := range names {
		factory, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown step: %s", name)
		}
		step, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to create step '%s': %w", name, err)
		}
		steps = append(steps, step)
	}
	return New(steps...), nil
}

// Presets defines the built-in workflow presets.
var Presets = map[string][]string{
	// issue-intake: the full intake workflow for newly opened issues
	"issue-intake": {
		"gatekeeper",
		"template_validator",
		"duplicate_detector",
		"assignment_resolver",
		"response_builder",
		"action_executor",
	},

	// validate-only: template validation without duplicate detection or assignment
	"validate-only": {
		"gatekeeper",
		"template_validator",
		"response_builder",
		"action_executor",
	},

	// detect-only: duplicate detection without validation or assignment
	"detect-only": {
		"gatekeeper",
		"duplicate_detector",
		"response_builder",
		"action_executor",
	},
}

// GetPreset returns the step names for a preset workflow.
func GetPreset(name string) ([]string, bool) {
	steps, ok := Presets[name]
	return steps, ok
}

// ResolveSteps determines the steps to use based on config.
// Priority: explicit steps > workflow preset > default
func ResolveSteps(explicitSteps []string, workflow string) []string {
	if len(explicitSteps) > 0 {
		return explicitSteps
	}
	if workflow != "" {
		if preset, ok := GetPreset(workflow); ok {
			return preset
		}
	}
	// Default to issue-intake
	return Presets["issue-intake"]
}
