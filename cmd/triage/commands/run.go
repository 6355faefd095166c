// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-13
// Last Modified: 2026-03-18

package commands

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/similigh/simili-triage/internal/comments"
	"github.com/similigh/simili-triage/internal/core/config"
	"github.com/similigh/simili-triage/internal/core/pipeline"
	"github.com/similigh/simili-triage/internal/event"
	"github.com/similigh/simili-triage/internal/integrations/github"
	"github.com/similigh/simili-triage/internal/tui"
)

var (
	eventFile string
	issueNum  int
	repoName  string
	dryRun    bool
	workflow  string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process the triggering issue through the intake pipeline",
	Long: `Process a single issue through the intake pipeline.

Inside GitHub Actions the issue comes from the event payload at
GITHUB_EVENT_PATH. Outside of Actions, pass --number to fetch the
issue from the API instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRun(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&eventFile, "event", "", "Path to the issues event payload (default: $GITHUB_EVENT_PATH)")
	runCmd.Flags().IntVar(&issueNum, "number", 0, "Issue number to fetch from the API (when no event payload)")
	runCmd.Flags().StringVar(&repoName, "repo", "", "Repository (owner/name) override")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run without posting comments or mutating the issue")
	runCmd.Flags().StringVar(&workflow, "workflow", "issue-intake", "Workflow preset to run")
}

func runRun(ctx context.Context) error {
	// 1. Load configuration: file if present, environment otherwise.
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if repoName != "" {
		cfg.Repository = repoName
	}

	// 2. Load the triggering issue.
	issue, err := loadIssue(ctx, cfg)
	if err != nil {
		return err
	}
	if issue.Org == "" || issue.Repo == "" {
		issue.Org = cfg.Org()
		issue.Repo = cfg.Repo()
	}
	if cfg.Repository == "" {
		cfg.Repository = issue.Org + "/" + issue.Repo
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// 3. Build dependencies.
	renderer, err := comments.NewRenderer(cfg.Defaults.TemplatesDir)
	if err != nil {
		return fmt.Errorf("failed to load comment templates: %w", err)
	}

	deps := &pipeline.Dependencies{
		GitHub:   github.NewClient(ctx, cfg.Token),
		Renderer: renderer,
		DryRun:   dryRun,
		RunID:    uuid.NewString(),
	}

	stepNames := pipeline.ResolveSteps(cfg.Steps, workflow)
	log.Printf("[run] run=%s issue=#%d steps=%v dry-run=%v", deps.RunID, issue.Number, stepNames, dryRun)

	// 4. Run: plain logs in CI, TUI otherwise.
	if isCI() {
		res, err := runPipeline(ctx, nil, deps, stepNames, issue, cfg, nil)
		if err != nil {
			return err
		}
		log.Printf("[run] %s", summarize(res))
		return nil
	}

	statusChan := make(chan tui.PipelineStatusMsg)
	model := tui.NewModel(stepNames, statusChan)
	p := tea.NewProgram(model)

	errCh := runPipelineAsync(ctx, p, deps, stepNames, issue, cfg, statusChan)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return <-errCh
}

// loadConfig resolves the config file or falls back to the environment.
func loadConfig() (*config.Config, error) {
	path := config.FindConfigPath(cfgFile)
	if path == "" {
		if cfgFile != "" {
			return nil, fmt.Errorf("config file not found: %s", cfgFile)
		}
		if verbose {
			fmt.Println("No configuration file found. Using environment variables.")
		}
		return config.FromEnv()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose {
		fmt.Printf("Loaded config from %s\n", path)
	}
	return cfg, nil
}

// loadIssue reads the issue from the event payload or the API.
func loadIssue(ctx context.Context, cfg *config.Config) (*pipeline.Issue, error) {
	path := eventFile
	if path == "" {
		path = os.Getenv("GITHUB_EVENT_PATH")
	}

	if path != "" {
		return event.ParseFile(path)
	}

	if issueNum == 0 {
		return nil, fmt.Errorf("no event payload found; pass --event or --number")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	client := github.NewClient(ctx, cfg.Token)
	gi, err := client.GetIssue(ctx, cfg.Org(), cfg.Repo(), issueNum)
	if err != nil {
		return nil, err
	}
	issue := event.FromGitHub(cfg.Org(), cfg.Repo(), gi)
	return &issue, nil
}

// isCI reports whether we are running non-interactively.
func isCI() bool {
	return os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"
}
