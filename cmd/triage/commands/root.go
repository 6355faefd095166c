// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-09
// Last Modified: 2026-03-18

// Package commands wires up the CLI surface of simili-triage.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Issue intake automation for GitHub repositories",
	Long: `simili-triage inspects newly opened issues, validates them against the
issue template, detects duplicates via text similarity, and assigns an
available collaborator. It is designed to run once per issue event
inside a GitHub Actions job.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Errors are printed here rather than by
// cobra (SilenceErrors) so a failed run always leaves a trace in the
// action log before the non-zero exit.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: .github/triage.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
