// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-14
// Last Modified: 2026-03-17

package commands

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/similigh/simili-triage/internal/comments"
	"github.com/similigh/simili-triage/internal/core/pipeline"
	"github.com/similigh/simili-triage/internal/event"
	"github.com/similigh/simili-triage/internal/integrations/github"
)

var (
	batchWorkers  int
	batchApply    bool
	batchWorkflow string
	batchLimit    int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Sweep all open issues through the intake pipeline",
	Long: `Run the intake pipeline over every open issue in the repository.

Batch mode is dry-run by default so a sweep over a large backlog cannot
mass-comment by accident; pass --apply to perform the mutations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "Number of concurrent workers")
	batchCmd.Flags().BoolVar(&batchApply, "apply", false, "Perform mutations (default is dry-run)")
	batchCmd.Flags().StringVar(&batchWorkflow, "workflow", "issue-intake", "Workflow preset to run")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "Process at most this many issues (0 = all)")
}

func runBatch(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	renderer, err := comments.NewRenderer(cfg.Defaults.TemplatesDir)
	if err != nil {
		return fmt.Errorf("failed to load comment templates: %w", err)
	}

	client := github.NewClient(ctx, cfg.Token)
	deps := &pipeline.Dependencies{
		GitHub:   client,
		Renderer: renderer,
		DryRun:   !batchApply,
		RunID:    uuid.NewString(),
	}
	if deps.DryRun {
		log.Printf("[batch] Dry-run mode enabled (pass --apply to perform mutations)")
	}

	issues, err := client.ListOpenIssues(ctx, cfg.Org(), cfg.Repo())
	if err != nil {
		return err
	}
	if batchLimit > 0 && len(issues) > batchLimit {
		issues = issues[:batchLimit]
	}

	stepNames := pipeline.ResolveSteps(cfg.Steps, batchWorkflow)
	log.Printf("[batch] Processing %d open issues with %d workers", len(issues), batchWorkers)

	if batchWorkers < 1 {
		batchWorkers = 1
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes = make(map[pipeline.Outcome]int)
		skipped  int
		failed   int
	)
	sem := make(chan struct{}, batchWorkers)

	for _, gi := range issues {
		issue := event.FromGitHub(cfg.Org(), cfg.Repo(), gi)

		wg.Add(1)
		sem <- struct{}{}
		go func(issue pipeline.Issue) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := runPipeline(ctx, nil, deps, stepNames, &issue, cfg, nil)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				failed++
				log.Printf("[batch] Issue #%d failed: %v", issue.Number, err)
			case res.Skipped:
				skipped++
			default:
				outcomes[res.Outcome]++
			}
		}(issue)
	}
	wg.Wait()

	log.Printf("[batch] Done: %d invalid, %d duplicate, %d assigned, %d unassigned, %d skipped, %d failed",
		outcomes[pipeline.OutcomeInvalid], outcomes[pipeline.OutcomeDuplicate],
		outcomes[pipeline.OutcomeAssigned], outcomes[pipeline.OutcomeUnassigned],
		skipped, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d issues failed", failed, len(issues))
	}
	return nil
}
