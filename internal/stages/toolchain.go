// SPDX-License-Identifier: MPL-2.0

package stages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"boxprep-cli/internal/hostenv"
	"boxprep-cli/internal/issue"
	"boxprep-cli/internal/pipeline"
	"boxprep-cli/internal/reclaim"
)

// toolchainStage trusts the tool-versions file and installs the pinned tool
// versions. The install is the one network-heavy step of the whole pipeline
// (it downloads full toolchains), so it carries the retry policy. Cleanup
// scrubs what the installers leave behind: VCS metadata from cloned plugin
// repositories, interpreter bytecode caches, and download staging dirs.
func (b *Builder) toolchainStage() pipeline.Stage {
	manager := b.cfg.Toolchain.Manager
	versionsFile := b.versionsFile

	check := pipeline.ActionFunc("check version manager", func(ctx context.Context, env *hostenv.Env) error {
		if !b.binaryAvailable(ctx, manager, env) {
			return issue.NewErrorContext().
				WithOperation("locate version manager").
				WithResource(manager).
				WithSuggestion("Install it via system.base_packages or in the base image").
				WithSuggestion("Check the toolchain.manager setting in your config").
				BuildError()
		}
		return nil
	})

	trust := pipeline.ActionFunc("trust tool-versions file", func(ctx context.Context, env *hostenv.Env) error {
		if _, err := os.Stat(versionsFile); err != nil {
			return issue.NewErrorContext().
				WithOperation("trust tool-versions file").
				WithResource(versionsFile).
				WithSuggestion("Create the file before provisioning").
				WithSuggestion("Or point toolchain.versions_file at your file").
				WithIssueId(issue.VersionsFileMissingId).
				Wrap(err).
				BuildError()
		}
		return b.runScript(ctx, fmt.Sprintf("%s trust %s", manager, quoteArg(versionsFile)), env)
	})

	install := b.scriptAction("install pinned tool versions", manager+" install --yes")

	dataDir := filepath.Join(b.home, ".local", "share", manager)

	return pipeline.Stage{
		Name: StageToolchain,
		Steps: []pipeline.Step{
			{Action: check},
			{Action: trust},
			{Action: install, Retry: &pipeline.RetryPolicy{
				Attempts: b.cfg.Retry.Attempts,
				Delay:    b.cfg.Retry.Delay,
			}},
		},
		Cleanup: []reclaim.Target{
			{Pattern: filepath.Join(dataDir, "plugins", "*", ".git"), Label: "VCS metadata"},
			{Pattern: filepath.Join(dataDir, "installs", "*", "*", ".git"), Label: "VCS metadata"},
			{Pattern: filepath.Join(dataDir, "downloads", "*"), Label: "download staging"},
			{Pattern: filepath.Join(b.home, ".cache", manager, "*"), Label: "installer cache"},
			{Pattern: filepath.Join(dataDir, "installs", "*", "*", "lib", "python*", "__pycache__"), Label: "bytecode cache"},
		},
	}
}
