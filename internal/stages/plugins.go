// SPDX-License-Identifier: MPL-2.0

package stages

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"boxprep-cli/internal/hostenv"
	"boxprep-cli/internal/issue"
	"boxprep-cli/internal/pipeline"
	"boxprep-cli/internal/pluginlist"
	"boxprep-cli/internal/reclaim"
)

// pluginStage activates the version manager's shell integration in the
// pipeline environment, then installs the plugins named in the plugin list.
// An absent or empty list skips the install entirely; a present list with an
// unavailable installer tool is a terminal failure, because it means an
// earlier stage did not do its job.
func (b *Builder) pluginStage() pipeline.Stage {
	manager := b.cfg.Toolchain.Manager
	versionsFile := b.versionsFile
	listFile := b.pluginList
	installCmd := strings.TrimSpace(b.cfg.Plugins.InstallCommand)

	activate := pipeline.ActionFunc("activate toolchain environment", func(_ context.Context, env *hostenv.Env) error {
		dataDir := env.Get("XDG_DATA_HOME")
		if dataDir == "" {
			dataDir = filepath.Join(b.home, ".local", "share")
		}
		env.PrependPath(filepath.Join(dataDir, manager, "shims"))
		env.Set(strings.ToUpper(manager)+"_CONFIG_FILE", versionsFile)
		return nil
	})

	install := pipeline.ActionFunc("install plugins", func(ctx context.Context, env *hostenv.Env) error {
		plugins, err := pluginlist.Load(listFile)
		if err != nil {
			return err
		}
		if len(plugins) == 0 {
			// The wrapped installer may treat zero targets as an error, so
			// the skip has to happen here.
			b.logger.Info("no plugins to install", "list", listFile)
			return nil
		}

		tool, _, _ := strings.Cut(installCmd, " ")
		if !b.binaryAvailable(ctx, tool, env) {
			return issue.NewErrorContext().
				WithOperation("locate plugin installer").
				WithResource(tool).
				WithSuggestion("Run the full pipeline so the toolchain stage provisions it").
				WithSuggestion("Check the plugins.install_command setting").
				WithIssueId(issue.PluginToolMissingId).
				BuildError()
		}

		for _, plugin := range plugins {
			b.logger.Info("installing plugin", "plugin", plugin)
			if err := b.runScript(ctx, fmt.Sprintf("%s %s", installCmd, quoteArg(plugin)), env); err != nil {
				return fmt.Errorf("plugin %s: %w", plugin, err)
			}
		}
		return nil
	})

	return pipeline.Stage{
		Name: StagePlugins,
		Steps: []pipeline.Step{
			{Action: activate},
			{Action: install},
		},
		Cleanup: []reclaim.Target{
			{Pattern: "/tmp/" + manager + "-plugin-*", Label: "plugin staging"},
			{Pattern: filepath.Join(b.home, ".local", "share", manager, "plugins", "*", ".git"), Label: "VCS metadata"},
		},
	}
}
