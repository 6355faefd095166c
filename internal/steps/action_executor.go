// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-12
// Last Modified: 2026-03-16

package steps

import (
	"context"
	"fmt"
	"log"

	"github.com/similigh/simili-triage/internal/core/pipeline"
)

// Mutator is the slice of the GitHub client the executor needs. It is
// the only interface in the pipeline that writes anything.
type Mutator interface {
	CreateComment(ctx context.Context, org, repo string, number int, body string) error
	AddLabels(ctx context.Context, org, repo string, number int, labels []string) error
	AddAssignees(ctx context.Context, org, repo string, number int, assignees []string) error
	CloseIssue(ctx context.Context, org, repo string, number int) error
}

// ActionExecutor applies the decided outcome: comment, labels,
// assignment and optional close. All earlier steps are read-only, so an
// aborted run never leaves a half-mutated issue behind.
type ActionExecutor struct {
	github Mutator
	dryRun bool
}

// NewActionExecutor creates a new action executor step.
func NewActionExecutor(deps *pipeline.Dependencies) *ActionExecutor {
	s := &ActionExecutor{dryRun: deps.DryRun}
	if deps.GitHub != nil {
		s.github = deps.GitHub
	}
	return s
}

// Name returns the step name.
func (s *ActionExecutor) Name() string {
	return "action_executor"
}

// Run executes the actions for the decided outcome.
func (s *ActionExecutor) Run(ctx *pipeline.Context) error {
	if ctx.Result.Skipped || !ctx.Result.Terminal() {
		return nil
	}

	comment, _ := ctx.Metadata["comment"].(string)
	closing := s.shouldClose(ctx)

	if s.dryRun {
		if comment != "" {
			log.Printf("[action_executor] DRY RUN: Would post comment on #%d:\n%s", ctx.Issue.Number, comment)
		}
		if len(ctx.Result.Assignees) > 0 {
			log.Printf("[action_executor] DRY RUN: Would assign %v", ctx.Result.Assignees)
		}
		if closing {
			log.Printf("[action_executor] DRY RUN: Would close issue #%d", ctx.Issue.Number)
		}
		return nil
	}

	if s.github == nil {
		return fmt.Errorf("action executor requires a GitHub client")
	}

	org, repo, number := ctx.Issue.Org, ctx.Issue.Repo, ctx.Issue.Number

	if comment != "" {
		if err := s.github.CreateComment(ctx.Ctx, org, repo, number, comment); err != nil {
			return err
		}
		ctx.Result.CommentPosted = true
		log.Printf("[action_executor] Posted %s comment on issue #%d", ctx.Result.Outcome, number)
	}

	if sentinel := ctx.Config.Defaults.ProcessedLabel; sentinel != "" {
		if err := s.github.AddLabels(ctx.Ctx, org, repo, number, []string{sentinel}); err != nil {
			return err
		}
		ctx.Result.LabelsApplied = append(ctx.Result.LabelsApplied, sentinel)
	}

	if len(ctx.Result.Assignees) > 0 {
		if err := s.github.AddAssignees(ctx.Ctx, org, repo, number, ctx.Result.Assignees); err != nil {
			return err
		}
		log.Printf("[action_executor] Assigned issue #%d to %v", number, ctx.Result.Assignees)
	}

	if closing {
		if err := s.github.CloseIssue(ctx.Ctx, org, repo, number); err != nil {
			return err
		}
		ctx.Result.Closed = true
		log.Printf("[action_executor] Closed issue #%d", number)
	}

	return nil
}

// shouldClose reports whether the outcome warrants closing the issue.
func (s *ActionExecutor) shouldClose(ctx *pipeline.Context) bool {
	switch ctx.Result.Outcome {
	case pipeline.OutcomeInvalid:
		return !ctx.Config.Defaults.LeaveOpenOnInvalid
	case pipeline.OutcomeDuplicate:
		return !ctx.Config.Defaults.LeaveOpenOnDuplicate
	default:
		return false
	}
}
