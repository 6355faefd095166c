// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-12
// Last Modified: 2026-03-12

package steps

import (
	"github.com/similigh/simili-triage/internal/core/pipeline"
)

// RegisterAll registers all built-in steps with the registry.
func RegisterAll(r *pipeline.Registry) {
	r.Register("gatekeeper", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewGatekeeper(deps), nil
	})

	r.Register("template_validator", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewTemplateValidator(deps), nil
	})

	r.Register("duplicate_detector", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewDuplicateDetector(deps), nil
	})

	r.Register("assignment_resolver", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewAssignmentResolver(deps), nil
	})

	r.Register("response_builder", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewResponseBuilder(deps), nil
	})

	r.Register("action_executor", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewActionExecutor(deps), nil
	})
}
