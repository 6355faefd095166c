// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-12
// Last Modified: 2026-03-16

package steps

import (
	"context"
	"fmt"
	"log"

	"github.com/similigh/simili-triage/internal/assign"
	"github.com/similigh/simili-triage/internal/core/pipeline"
	"github.com/similigh/simili-triage/internal/event"
)

// CollaboratorService is the slice of the GitHub client the resolver needs.
type CollaboratorService interface {
	IssueLister
	ListCollaborators(ctx context.Context, org, repo string) ([]string, error)
	IsAssignable(ctx context.Context, org, repo, user string) (bool, error)
}

// AssignmentResolver picks an available collaborator for a valid,
// non-duplicate issue.
type AssignmentResolver struct {
	collaborators CollaboratorService
}

// NewAssignmentResolver creates a new assignment resolver step.
func NewAssignmentResolver(deps *pipeline.Dependencies) *AssignmentResolver {
	s := &AssignmentResolver{}
	if deps.GitHub != nil {
		s.collaborators = deps.GitHub
	}
	return s
}

// Name returns the step name.
func (s *AssignmentResolver) Name() string {
	return "assignment_resolver"
}

// Run filters collaborators to those currently assignable and picks
// round-robin by least-recently-assigned, observed from the open-issue
// snapshot. No available collaborator is a normal outcome, not a
// failure: the issue simply stays unassigned.
func (s *AssignmentResolver) Run(ctx *pipeline.Context) error {
	if ctx.Result.Terminal() {
		return nil
	}

	if s.collaborators == nil {
		return fmt.Errorf("assignment resolver requires a GitHub client")
	}

	logins, err := s.collaborators.ListCollaborators(ctx.Ctx, ctx.Issue.Org, ctx.Issue.Repo)
	if err != nil {
		return fmt.Errorf("failed to list collaborators: %w", err)
	}

	var available []string
	for _, login := range logins {
		if isBotAuthor(login, ctx.Config.BotUsers) {
			continue
		}
		ok, err := s.collaborators.IsAssignable(ctx.Ctx, ctx.Issue.Org, ctx.Issue.Repo, login)
		if err != nil {
			log.Printf("[assignment_resolver] Could not check %q, leaving out: %v", login, err)
			continue
		}
		if ok {
			available = append(available, login)
		}
	}

	if len(available) == 0 {
		ctx.Result.Outcome = pipeline.OutcomeUnassigned
		log.Printf("[assignment_resolver] No available collaborator for #%d", ctx.Issue.Number)
		return nil
	}

	snapshot := ctx.OpenIssues
	if snapshot == nil {
		// Custom workflows may run without the detector; take the
		// snapshot here so round-robin still has its signal.
		raw, err := s.collaborators.ListOpenIssues(ctx.Ctx, ctx.Issue.Org, ctx.Issue.Repo)
		if err != nil {
			return fmt.Errorf("failed to fetch open issues: %w", err)
		}
		for _, gi := range raw {
			snapshot = append(snapshot, event.FromGitHub(ctx.Issue.Org, ctx.Issue.Repo, gi))
		}
		ctx.OpenIssues = snapshot
	}

	idx := make(assign.LastAssignedIndex)
	for i := range snapshot {
		for _, login := range snapshot[i].Assignees {
			idx.Observe(login, snapshot[i].CreatedAt)
		}
	}

	picked := assign.Pick(idx.Candidates(available), ctx.Config.Defaults.Assignees)
	if len(picked) == 0 {
		ctx.Result.Outcome = pipeline.OutcomeUnassigned
		return nil
	}

	ctx.Result.Outcome = pipeline.OutcomeAssigned
	ctx.Result.Assignees = picked
	log.Printf("[assignment_resolver] Issue #%d will be assigned to %v", ctx.Issue.Number, picked)
	return nil
}
