// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"boxprep-cli/internal/config"
	"boxprep-cli/internal/hostenv"
	"boxprep-cli/internal/issue"
	"boxprep-cli/internal/pipeline"
	"boxprep-cli/internal/runner"
	"boxprep-cli/internal/stages"

	"github.com/spf13/cobra"
)

// upCmd runs the full provisioning pipeline.
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Run the full provisioning pipeline",
	Long: `Run every provisioning stage in order: system packages, toolchain,
plugins, and dotfiles. Each stage reclaims its transient artifacts whether it
succeeded or failed, and a stage failure stops the pipeline before the next
stage starts.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}

		stageList, err := buildStages(cfg)
		if err != nil {
			return err
		}

		return runStages(cmd.Context(), cfg, stageList)
	},
}

// loadConfig loads the effective configuration, honoring --config and
// --dry-run.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		renderIssuePage(err, issue.ConfigLoadFailedId)
		return nil, err
	}
	if dryRun {
		cfg.DryRun = true
	}
	return cfg, nil
}

// issuePageFor picks the known-issue page for err: the page linked by an
// ActionableError in the chain when there is one, otherwise the fallback.
func issuePageFor(err error, fallback issue.Id) *issue.Issue {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.IssueId != 0 {
		if page := issue.Get(ae.IssueId); page != nil {
			return page
		}
	}
	return issue.Get(fallback)
}

// renderIssuePage prints the known-issue page matching err to stderr.
func renderIssuePage(err error, fallback issue.Id) {
	if rendered, renderErr := issuePageFor(err, fallback).Render("dark"); renderErr == nil {
		fmt.Fprintln(os.Stderr, rendered)
	}
}

// selectRunner prefers the host shell and falls back to the built-in
// interpreter when no shell binary is installed.
func selectRunner() runner.Runner {
	native := runner.NewNativeRunner()
	if native.Available() {
		return native
	}
	return runner.NewVirtualRunner()
}

// buildStages assembles the configured stages in execution order.
func buildStages(cfg *config.Config) ([]pipeline.Stage, error) {
	return stages.NewBuilder(cfg, selectRunner(), newLogger()).Build()
}

// runStages drives the sequencer over the given stages and translates a
// failure into a user-facing error with the underlying exit status.
func runStages(ctx context.Context, cfg *config.Config, stageList []pipeline.Stage) error {
	logger := newLogger()
	seq := pipeline.NewSequencer(logger, pipeline.WithDryRun(cfg.DryRun))
	env := hostenv.FromProcess()

	if cfg.DryRun {
		fmt.Println(WarningStyle.Render("dry run: actions and cleanup sweeps are logged, not executed"))
	}

	if err := seq.Run(ctx, env, stageList); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, verbose))
		renderIssuePage(err, issue.StageFailedId)

		var statusErr *runner.ExitStatusError
		if errors.As(err, &statusErr) {
			return &ExitError{Code: statusErr.Code, Err: err}
		}
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Println(SuccessStyle.Render("✓ provisioning complete"))
	return nil
}
