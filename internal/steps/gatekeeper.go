// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-11
// Last Modified: 2026-03-16

// Package steps contains the modular pipeline steps.
// Each step implements the pipeline.Step interface.
package steps

import (
	"log"
	"strings"

	"github.com/similigh/simili-triage/internal/core/pipeline"
)

// Gatekeeper decides whether an issue should be processed at all.
type Gatekeeper struct{}

// NewGatekeeper creates a new gatekeeper step.
func NewGatekeeper(deps *pipeline.Dependencies) *Gatekeeper {
	return &Gatekeeper{}
}

// Name returns the step name.
func (s *Gatekeeper) Name() string {
	return "gatekeeper"
}

// Run filters out events this run must not touch: bot-authored issues,
// non-open events, closed issues, and issues already carrying the
// processed sentinel label. Re-running on a processed issue is a no-op
// rather than a second comment.
func (s *Gatekeeper) Run(ctx *pipeline.Context) error {
	log.Printf("[gatekeeper] Issue #%d, EventAction=%q, Repo=%s/%s",
		ctx.Issue.Number, ctx.Issue.EventAction, ctx.Issue.Org, ctx.Issue.Repo)

	if isBotAuthor(ctx.Issue.Author, ctx.Config.BotUsers) {
		log.Printf("[gatekeeper] Skipping issue from bot author %q", ctx.Issue.Author)
		ctx.Result.Skipped = true
		ctx.Result.SkipReason = "issue authored by bot"
		return pipeline.ErrSkipPipeline
	}

	// Batch mode feeds issues without an event action; accept those.
	if ctx.Issue.EventAction != "" && ctx.Issue.EventAction != "opened" {
		log.Printf("[gatekeeper] Skipping event action %q (only 'opened' is processed)", ctx.Issue.EventAction)
		ctx.Result.Skipped = true
		ctx.Result.SkipReason = "event action is not 'opened'"
		return pipeline.ErrSkipPipeline
	}

	if ctx.Issue.State == "closed" {
		ctx.Result.Skipped = true
		ctx.Result.SkipReason = "issue is closed"
		return pipeline.ErrSkipPipeline
	}

	if sentinel := ctx.Config.Defaults.ProcessedLabel; sentinel != "" && ctx.Issue.HasLabel(sentinel) {
		log.Printf("[gatekeeper] Issue #%d already carries %q, skipping", ctx.Issue.Number, sentinel)
		ctx.Result.Skipped = true
		ctx.Result.SkipReason = "issue already processed"
		return pipeline.ErrSkipPipeline
	}

	log.Printf("[gatekeeper] Issue #%d accepted for intake", ctx.Issue.Number)
	return nil
}

// isBotAuthor returns true if the given username matches a known bot
// pattern or is in the user-configured bot_users list.
func isBotAuthor(author string, configBotUsers []string) bool {
	// Built-in heuristics
	if strings.HasSuffix(author, "[bot]") ||
		strings.EqualFold(author, "simili-triage") {
		return true
	}
	// User-configured bot users
	for _, u := range configBotUsers {
		if strings.EqualFold(author, u) {
			return true
		}
	}
	return false
}
