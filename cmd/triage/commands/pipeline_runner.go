// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-13
// Last Modified: 2026-03-18

package commands

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/similigh/simili-triage/internal/core/config"
	"github.com/similigh/simili-triage/internal/core/pipeline"
	"github.com/similigh/simili-triage/internal/steps"
	"github.com/similigh/simili-triage/internal/tui"
)

// statusReportingStep wraps a step to send status updates to the TUI.
type statusReportingStep struct {
	inner      pipeline.Step
	statusChan chan<- tui.PipelineStatusMsg
}

func (s *statusReportingStep) Name() string {
	return s.inner.Name()
}

func (s *statusReportingStep) Run(ctx *pipeline.Context) error {
	s.report(tui.PipelineStatusMsg{Step: s.Name(), Status: "started", Message: "Starting..."})

	err := s.inner.Run(ctx)

	if err != nil {
		if errors.Is(err, pipeline.ErrSkipPipeline) {
			s.report(tui.PipelineStatusMsg{Step: s.Name(), Status: "skipped", Message: ctx.Result.SkipReason})
			return err
		}
		s.report(tui.PipelineStatusMsg{Step: s.Name(), Status: "error", Message: err.Error()})
		return err
	}

	s.report(tui.PipelineStatusMsg{Step: s.Name(), Status: "success", Message: "Completed"})
	return nil
}

func (s *statusReportingStep) report(msg tui.PipelineStatusMsg) {
	if s.statusChan != nil {
		s.statusChan <- msg
	}
}

// runPipelineAsync runs the pipeline in its own goroutine and returns a
// buffered channel that yields the terminal error exactly once. The
// caller receives from it after the TUI exits, so a pipeline failure is
// never lost to the goroutine.
func runPipelineAsync(ctx context.Context, p *tea.Program, deps *pipeline.Dependencies, stepNames []string, issue *pipeline.Issue, cfg *config.Config, statusChan chan tui.PipelineStatusMsg) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		_, err := runPipeline(ctx, p, deps, stepNames, issue, cfg, statusChan)
		errCh <- err
	}()
	return errCh
}

// runPipeline builds and runs the pipeline for one issue. The tea
// program and status channel are nil in CI mode.
func runPipeline(ctx context.Context, p *tea.Program, deps *pipeline.Dependencies, stepNames []string, issue *pipeline.Issue, cfg *config.Config, statusChan chan tui.PipelineStatusMsg) (*pipeline.Result, error) {
	if statusChan != nil {
		defer close(statusChan)
	}

	pCtx := pipeline.NewContext(ctx, issue, cfg)

	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)

	built, err := registry.BuildFromNames(stepNames, deps)
	if err != nil {
		if p != nil {
			p.Send(tui.ResultMsg{Success: false, Output: err.Error()})
		}
		return pCtx.Result, err
	}

	// Wrap steps with status reporting
	var wrapped []pipeline.Step
	for _, step := range built.Steps() {
		wrapped = append(wrapped, &statusReportingStep{inner: step, statusChan: statusChan})
	}

	if err := pipeline.New(wrapped...).Run(pCtx); err != nil {
		if p != nil {
			p.Send(tui.ResultMsg{Success: false, Output: err.Error()})
		}
		return pCtx.Result, err
	}

	if p != nil {
		p.Send(tui.ResultMsg{Success: true, Output: summarize(pCtx.Result)})
	}
	return pCtx.Result, nil
}

// summarize renders a one-glance result for logs and the TUI.
func summarize(res *pipeline.Result) string {
	switch {
	case res.Skipped:
		return fmt.Sprintf("Issue #%d skipped: %s", res.IssueNumber, res.SkipReason)
	case res.Outcome == pipeline.OutcomeInvalid:
		return fmt.Sprintf("Issue #%d does not follow the template (missing: %v)", res.IssueNumber, res.MissingSections)
	case res.Outcome == pipeline.OutcomeDuplicate && res.Duplicate != nil:
		return fmt.Sprintf("Issue #%d is a duplicate of #%d (score %.0f)", res.IssueNumber, res.Duplicate.Number, res.Duplicate.Score)
	case res.Outcome == pipeline.OutcomeAssigned:
		return fmt.Sprintf("Issue #%d assigned to %v", res.IssueNumber, res.Assignees)
	case res.Outcome == pipeline.OutcomeUnassigned:
		return fmt.Sprintf("Issue #%d passed checks, no collaborator available", res.IssueNumber)
	default:
		return fmt.Sprintf("Issue #%d processed", res.IssueNumber)
	}
}
