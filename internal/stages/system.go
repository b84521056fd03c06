// SPDX-License-Identifier: MPL-2.0

package stages

import (
	"context"
	"fmt"

	"boxprep-cli/internal/hostenv"
	"boxprep-cli/internal/issue"
	"boxprep-cli/internal/pipeline"
	"boxprep-cli/internal/prereq"
	"boxprep-cli/internal/reclaim"
)

// systemStage configures the package manager, installs the base package set
// and feature bundles, then reclaims the package caches.
func (b *Builder) systemStage() pipeline.Stage {
	manager := b.cfg.System.Manager

	steps := []pipeline.Step{
		{Action: pipeline.ActionFunc("check package manager", func(context.Context, *hostenv.Env) error {
			if err := prereq.Binary(manager); err != nil {
				return issue.NewErrorContext().
					WithOperation("locate package manager").
					WithResource(manager).
					WithSuggestion("Check the system.manager setting in your config").
					WithSuggestion("Make sure you are provisioning a supported base image").
					WithIssueId(issue.PackageManagerNotFoundId).
					Wrap(err).
					BuildError()
			}
			return nil
		})},
		{Action: pipeline.ActionFunc("configure package manager", func(_ context.Context, env *hostenv.Env) error {
			// Installers must never block on prompts inside a container build.
			env.Set("DEBIAN_FRONTEND", "noninteractive")
			return nil
		})},
		{Action: b.scriptAction("refresh package index", manager+" update")},
	}

	if b.cfg.System.Upgrade {
		steps = append(steps, pipeline.Step{
			Action: b.scriptAction("upgrade installed packages", manager+" upgrade -y"),
		})
	}

	if len(b.cfg.System.BasePackages) > 0 {
		script := fmt.Sprintf("%s install -y %s", manager, quoteArgs(b.cfg.System.BasePackages))
		steps = append(steps, pipeline.Step{
			Action: b.scriptAction("install base packages", script),
		})
	}

	for _, bundle := range b.cfg.System.Bundles {
		steps = append(steps, pipeline.Step{
			Action: b.scriptAction("install feature bundle "+bundle, bundle),
		})
	}

	return pipeline.Stage{
		Name:  StageSystem,
		Steps: steps,
		Cleanup: []reclaim.Target{
			{Pattern: "/var/lib/apt/lists/*", Label: "package index"},
			{Pattern: "/var/cache/apt/archives/*.deb", Label: "package archives"},
			{Pattern: "/tmp/boxprep-*", Label: "temp files"},
		},
	}
}
