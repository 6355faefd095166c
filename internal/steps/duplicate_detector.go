// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-11
// Last Modified: 2026-03-16

package steps

import (
	"context"
	"fmt"
	"log"

	gh "github.com/google/go-github/v60/github"

	"github.com/similigh/simili-triage/internal/core/pipeline"
	"github.com/similigh/simili-triage/internal/event"
	"github.com/similigh/simili-triage/internal/similarity"
	"github.com/similigh/simili-triage/internal/utils/text"
)

// IssueLister is the slice of the GitHub client the detector needs.
type IssueLister interface {
	ListOpenIssues(ctx context.Context, org, repo string) ([]*gh.Issue, error)
}

// DuplicateDetector compares the candidate issue against all open
// issues using lexical similarity.
type DuplicateDetector struct {
	issues IssueLister
}

// NewDuplicateDetector creates a new duplicate detector step.
func NewDuplicateDetector(deps *pipeline.Dependencies) *DuplicateDetector {
	s := &DuplicateDetector{}
	if deps.GitHub != nil {
		s.issues = deps.GitHub
	}
	return s
}

// Name returns the step name.
func (s *DuplicateDetector) Name() string {
	return "duplicate_detector"
}

// Run scores the candidate against the open-issue snapshot. The
// threshold is inclusive; ties break toward the earliest-created issue.
// An empty body carries no signal, so it never flags a duplicate.
func (s *DuplicateDetector) Run(ctx *pipeline.Context) error {
	if ctx.Result.Terminal() {
		return nil
	}

	if text.Normalize(ctx.Issue.Body) == "" {
		log.Printf("[duplicate_detector] Issue #%d has an empty body, treating as non-duplicate", ctx.Issue.Number)
		return nil
	}

	if s.issues == nil {
		return fmt.Errorf("duplicate detector requires a GitHub client")
	}

	raw, err := s.issues.ListOpenIssues(ctx.Ctx, ctx.Issue.Org, ctx.Issue.Repo)
	if err != nil {
		return fmt.Errorf("failed to fetch open issues: %w", err)
	}

	snapshot := make([]pipeline.Issue, 0, len(raw))
	for _, gi := range raw {
		snapshot = append(snapshot, event.FromGitHub(ctx.Issue.Org, ctx.Issue.Repo, gi))
	}
	ctx.OpenIssues = snapshot

	candidate := similarity.Document{Title: ctx.Issue.Title, Body: ctx.Issue.Body}
	threshold := ctx.Config.Defaults.DuplicateThreshold

	var best *pipeline.DuplicateMatch
	for i := range snapshot {
		existing := &snapshot[i]
		if existing.Number == ctx.Issue.Number {
			continue
		}

		score := similarity.Score(candidate, similarity.Document{
			Title: existing.Title,
			Body:  existing.Body,
		})
		if score < threshold {
			continue
		}

		if best == nil || score > best.Score ||
			(score == best.Score && existing.CreatedAt.Before(best.CreatedAt)) {
			best = &pipeline.DuplicateMatch{
				Number:    existing.Number,
				Title:     existing.Title,
				URL:       existing.URL,
				Score:     score,
				CreatedAt: existing.CreatedAt,
			}
		}
	}

	if best == nil {
		log.Printf("[duplicate_detector] No duplicate found for #%d among %d open issues",
			ctx.Issue.Number, len(snapshot))
		return nil
	}

	ctx.Result.Outcome = pipeline.OutcomeDuplicate
	ctx.Result.Duplicate = best
	log.Printf("[duplicate_detector] Issue #%d duplicates #%d (score %.1f, threshold %.1f)",
		ctx.Issue.Number, best.Number, best.Score, threshold)
	return nil
}
