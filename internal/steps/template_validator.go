// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-11
// Last Modified: 2026-03-16

package steps

import (
	"fmt"
	"log"

	"github.com/similigh/simili-triage/internal/core/pipeline"
	"github.com/similigh/simili-triage/internal/validate"
)

// TemplateValidator checks the issue body against the required sections.
type TemplateValidator struct{}

// NewTemplateValidator creates a new template validator step.
func NewTemplateValidator(deps *pipeline.Dependencies) *TemplateValidator {
	return &TemplateValidator{}
}

// Name returns the step name.
func (s *TemplateValidator) Name() string {
	return "template_validator"
}

// Run validates the issue body. On failure it records every missing and
// malformed section and marks the invalid outcome; the detector and
// resolver then become no-ops and only the outcome comment is posted.
func (s *TemplateValidator) Run(ctx *pipeline.Context) error {
	if ctx.Result.Terminal() {
		return nil
	}

	tmpl, err := validate.FromConfig(ctx.Config.Sections)
	if err != nil {
		return fmt.Errorf("failed to build issue template: %w", err)
	}

	report := tmpl.Validate(ctx.Issue.Body)
	if report.Valid() {
		log.Printf("[template_validator] Issue #%d follows the template", ctx.Issue.Number)
		return nil
	}

	ctx.Result.Outcome = pipeline.OutcomeInvalid
	ctx.Result.MissingSections = report.Missing
	ctx.Result.MalformedFields = report.Malformed
	log.Printf("[template_validator] Issue #%d is invalid: %d missing, %d malformed sections",
		ctx.Issue.Number, len(report.Missing), len(report.Malformed))
	return nil
}
