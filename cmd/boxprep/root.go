// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"boxprep-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// dryRun logs planned actions without executing them
	dryRun bool

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "boxprep",
		Short: "A development container provisioner",
		Long: TitleStyle.Render("boxprep") + SubtitleStyle.Render(" - A development container provisioner") + `

boxprep drives a sequenced provisioning pipeline: it installs OS
packages, installs pinned tool versions through a version manager,
installs plugins, and lays down dotfiles. Flaky network-bound installs
retry with a fixed delay, and every stage reclaims its transient
artifacts whether the stage succeeded or failed.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'boxprep config init' to create a config file
  2. Edit package lists, tool versions, and plugin list to taste
  3. Provision with: boxprep up

` + SubtitleStyle.Render("Examples:") + `
  boxprep up                Run the full pipeline
  boxprep up --dry-run      Show what would run
  boxprep stage toolchain   Run a single stage
  boxprep plugins           Show the parsed plugin list
  boxprep config show       Show effective configuration`,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/boxprep/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "log planned actions without executing them")

	// Add subcommands
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(pluginsCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// newLogger builds the pipeline logger honoring the --verbose flag.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors carry suggestions; verbose mode shows the error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
