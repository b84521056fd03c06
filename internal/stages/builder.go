// SPDX-License-Identifier: MPL-2.0

package stages

import (
	"context"
	"fmt"
	"os"
	"strings"

	"boxprep-cli/internal/config"
	"boxprep-cli/internal/hostenv"
	"boxprep-cli/internal/pipeline"
	"boxprep-cli/internal/reclaim"
	"boxprep-cli/internal/runner"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"
)

// Stage names, in pipeline order.
const (
	StageSystem    = "system"
	StageToolchain = "toolchain"
	StagePlugins   = "plugins"
	StageDotfiles  = "dotfiles"
)

// Builder assembles pipeline stages from configuration.
type Builder struct {
	cfg    *config.Config
	runner runner.Runner
	logger *log.Logger

	home         string
	versionsFile string
	pluginList   string
}

// NewBuilder creates a stage builder. The runner executes every shell-backed
// action; tests inject a fake to observe the command lines.
func NewBuilder(cfg *config.Config, r runner.Runner, logger *log.Logger) *Builder {
	return &Builder{cfg: cfg, runner: r, logger: logger}
}

// Build resolves configured paths and returns the stages in their fixed
// execution order.
func (b *Builder) Build() ([]pipeline.Stage, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	b.home = home

	b.versionsFile, err = config.ExpandHome(b.cfg.Toolchain.VersionsFile)
	if err != nil {
		return nil, err
	}
	b.pluginList, err = config.ExpandHome(b.cfg.Plugins.ListFile)
	if err != nil {
		return nil, err
	}

	stages := []pipeline.Stage{
		b.systemStage(),
		b.toolchainStage(),
		b.pluginStage(),
		b.dotfileStage(),
	}

	// Operator-defined sweeps ride on the final stage so they run at the
	// very end of a successful pipeline.
	last := &stages[len(stages)-1]
	for _, pattern := range b.cfg.Cleanup.ExtraPatterns {
		expanded, err := config.ExpandHome(pattern)
		if err != nil {
			return nil, err
		}
		last.Cleanup = append(last.Cleanup, reclaim.Target{Pattern: expanded, Label: "extra"})
	}

	return stages, nil
}

// ByName returns the stage with the given name.
func ByName(stages []pipeline.Stage, name string) (pipeline.Stage, bool) {
	for _, stage := range stages {
		if stage.Name == name {
			return stage, true
		}
	}
	return pipeline.Stage{}, false
}

// Names returns the stage names in execution order.
func Names() []string {
	return []string{StageSystem, StageToolchain, StagePlugins, StageDotfiles}
}

// scriptAction wraps a shell command line as a pipeline action.
func (b *Builder) scriptAction(description, script string) pipeline.Action {
	return pipeline.ActionFunc(description, func(ctx context.Context, env *hostenv.Env) error {
		return b.runScript(ctx, script, env)
	})
}

func (b *Builder) runScript(ctx context.Context, script string, env *hostenv.Env) error {
	b.logger.Debug("running", "script", script)
	return b.runner.Run(ctx, runner.Script{Source: script}, env).Err()
}

// binaryAvailable checks for a binary through the runner, so PATH entries
// added to the pipeline environment by earlier stages are honored.
func (b *Builder) binaryAvailable(ctx context.Context, name string, env *hostenv.Env) bool {
	script := fmt.Sprintf("command -v %s >/dev/null 2>&1", quoteArg(name))
	return b.runner.Run(ctx, runner.Script{Source: script}, env).Ok()
}

// quoteArg quotes a single argument for safe interpolation into a command
// line.
func quoteArg(arg string) string {
	quoted, err := syntax.Quote(arg, syntax.LangPOSIX)
	if err != nil {
		// Arguments with unprintable bytes cannot be quoted; pass them
		// through and let the shell report the failure.
		return arg
	}
	return quoted
}

// quoteArgs quotes every argument and joins them with spaces.
func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = quoteArg(arg)
	}
	return strings.Join(quoted, " ")
}
