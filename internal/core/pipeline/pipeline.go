// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-09
// Last Modified: 2026-03-12

// Package pipeline provides the core pipeline engine for simili-triage.
// It defines the Step interface and Context structure used by all pipeline steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/similigh/simili-triage/internal/core/config"
)

// ErrSkipPipeline indicates that the pipeline should stop gracefully.
// This is not an error condition, just an early exit (e.g., bot author,
// already-processed issue, disabled repo).
var ErrSkipPipeline = errors.New("skip remaining pipeline steps")

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Name returns the unique identifier for this step.
	Name() string

	// Run executes the step's logic.
	// It should return ErrSkipPipeline to stop the pipeline gracefully,
	// or any other error to indicate failure.
	Run(ctx *Context) error
}

// Issue represents a GitHub issue being processed.
type Issue struct {
	Org         string    `json:"org"`
	Repo        string    `json:"repo"`
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	State       string    `json:"state"` // "open" or "closed"
	Labels      []string  `json:"labels"`
	Assignees   []string  `json:"assignees"`
	Author      string    `json:"author"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
	EventAction string    `json:"event_action,omitempty"` // e.g. "opened"
}

// HasLabel reports whether the issue carries the given label.
func (i *Issue) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if l == name {
			return true
		}
	}
	return false
}

// Outcome is the terminal classification of a processed issue.
// Exactly one outcome is reached per run, and each maps to one
// comment template.
type Outcome string

const (
	// OutcomeInvalid means the issue body is missing required sections.
	OutcomeInvalid Outcome = "invalid"
	// OutcomeDuplicate means an existing open issue matched at or above
	// the duplicate threshold.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeAssigned means the issue passed all checks and a
	// collaborator was assigned.
	OutcomeAssigned Outcome = "assigned"
	// OutcomeUnassigned means the issue passed all checks but no
	// collaborator was available.
	OutcomeUnassigned Outcome = "unassigned"
)

// DuplicateMatch describes the best-scoring existing issue.
type DuplicateMatch struct {
	Number    int
	Title     string
	URL       string
	Score     float64 // 0-100
	CreatedAt time.Time
}

// Result holds the accumulated results from pipeline execution.
type Result struct {
	IssueNumber     int
	Outcome         Outcome
	Skipped         bool
	SkipReason      string
	MissingSections []string
	MalformedFields []string
	Duplicate       *DuplicateMatch
	Assignees       []string
	CommentPosted   bool
	Closed          bool
	LabelsApplied   []string
	Errors          []error
}

// Terminal reports whether an outcome has already been decided.
// Later decision steps become no-ops once this is true, so that a
// single run posts exactly one outcome comment.
func (r *Result) Terminal() bool {
	return r.Outcome != ""
}

// Context carries data through the pipeline steps.
type Context struct {
	// Ctx is the Go context for cancellation and timeouts.
	Ctx context.Context

	// Issue is the issue being processed.
	Issue *Issue

	// Config is the loaded configuration.
	Config *config.Config

	// Result accumulates the processing results.
	Result *Result

	// OpenIssues is the point-in-time snapshot of open issues, fetched
	// once by the duplicate detector and reused by the assignment
	// resolver for round-robin bookkeeping.
	OpenIssues []Issue

	// Metadata allows steps to pass arbitrary data to subsequent steps.
	Metadata map[string]interface{}
}

// NewContext creates a new pipeline context for an issue.
func NewContext(ctx context.Context, issue *Issue, cfg *config.Config) *Context {
	return &Context{
		Ctx:      ctx,
		Issue:    issue,
		Config:   cfg,
		Result:   &Result{IssueNumber: issue.Number},
		Metadata: make(map[string]interface{}),
	}
}

// Pipeline executes a sequence of steps.
type Pipeline struct {
	steps []Step
}

// New creates a new pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps in order.
// Stops on the first error (unless it's ErrSkipPipeline, which is graceful).
func (p *Pipeline) Run(ctx *Context) error {
	for _, step := range p.steps {
		if err := step.Run(ctx); err != nil {
			if errors.Is(err, ErrSkipPipeline) {
				// Graceful early exit
				return nil
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name(), err)
		}
	}
	return nil
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// Steps returns the list of steps (for introspection).
func (p *Pipeline) Steps() []Step {
	return p.steps
}
