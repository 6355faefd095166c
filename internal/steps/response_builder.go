// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-12
// Last Modified: 2026-03-16

package steps

import (
	"fmt"
	"log"

	"github.com/similigh/simili-triage/internal/comments"
	"github.com/similigh/simili-triage/internal/core/pipeline"
)

// ResponseBuilder renders the single outcome comment for the run.
type ResponseBuilder struct {
	renderer *comments.Renderer
	runID    string
}

// NewResponseBuilder creates a new response builder step.
func NewResponseBuilder(deps *pipeline.Dependencies) *ResponseBuilder {
	return &ResponseBuilder{
		renderer: deps.Renderer,
		runID:    deps.RunID,
	}
}

// Name returns the step name.
func (s *ResponseBuilder) Name() string {
	return "response_builder"
}

// outcomeKinds maps terminal outcomes to comment templates.
var outcomeKinds = map[pipeline.Outcome]comments.Kind{
	pipeline.OutcomeInvalid:    comments.KindInvalid,
	pipeline.OutcomeDuplicate:  comments.KindDuplicate,
	pipeline.OutcomeAssigned:   comments.KindAssigned,
	pipeline.OutcomeUnassigned: comments.KindUnassigned,
}

// Run builds the outcome comment and hands it to the action executor
// via the context metadata.
func (s *ResponseBuilder) Run(ctx *pipeline.Context) error {
	if ctx.Result.Skipped || !ctx.Result.Terminal() {
		log.Printf("[response_builder] No outcome to respond to, skipping comment")
		return nil
	}

	if s.renderer == nil {
		return fmt.Errorf("response builder requires a comment renderer")
	}

	kind, ok := outcomeKinds[ctx.Result.Outcome]
	if !ok {
		return fmt.Errorf("no comment template for outcome %q", ctx.Result.Outcome)
	}

	data := &comments.Data{
		Author:          ctx.Issue.Author,
		IssueNumber:     ctx.Issue.Number,
		MissingSections: ctx.Result.MissingSections,
		MalformedFields: ctx.Result.MalformedFields,
		Assignees:       ctx.Result.Assignees,
		RunID:           s.runID,
	}
	if d := ctx.Result.Duplicate; d != nil {
		data.Duplicate = &comments.DuplicateRef{
			Number: d.Number,
			Title:  d.Title,
			URL:    d.URL,
			Score:  d.Score,
		}
	}

	body, err := s.renderer.Render(kind, data)
	if err != nil {
		return err
	}

	ctx.Metadata["comment"] = body
	log.Printf("[response_builder] Built %s comment for issue #%d", kind, ctx.Issue.Number)
	return nil
}
