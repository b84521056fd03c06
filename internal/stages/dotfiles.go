// SPDX-License-Identifier: MPL-2.0

package stages

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"boxprep-cli/internal/config"
	"boxprep-cli/internal/hostenv"
	"boxprep-cli/internal/pipeline"
	"boxprep-cli/internal/reclaim"
)

// dotfileStage lays down the configured dotfiles. The file contents are
// opaque external data; this stage only copies them into place, creating
// parent directories as needed and replacing existing targets.
func (b *Builder) dotfileStage() pipeline.Stage {
	steps := make([]pipeline.Step, 0, len(b.cfg.Dotfiles.Entries))

	for _, entry := range b.cfg.Dotfiles.Entries {
		steps = append(steps, pipeline.Step{
			Action: b.dotfileAction(entry),
		})
	}

	return pipeline.Stage{
		Name:  StageDotfiles,
		Steps: steps,
		Cleanup: []reclaim.Target{
			{Pattern: "/tmp/boxprep-dotfiles-*", Label: "dotfile staging"},
		},
	}
}

func (b *Builder) dotfileAction(entry config.DotfileEntry) pipeline.Action {
	description := fmt.Sprintf("install dotfile %s", entry.Target)
	return pipeline.ActionFunc(description, func(context.Context, *hostenv.Env) error {
		source, err := config.ExpandHome(entry.Source)
		if err != nil {
			return err
		}
		target, err := config.ExpandHome(entry.Target)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", target, err)
		}
		return copyFile(source, target)
	})
}

// copyFile copies source to target, preserving the source's permission bits.
// An existing target is replaced.
func copyFile(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open dotfile source: %w", err)
	}
	defer in.Close() //nolint:errcheck // read-only file

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat dotfile source: %w", err)
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create dotfile target: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close() //nolint:errcheck,gosec // the copy error is the one that matters
		return fmt.Errorf("failed to copy dotfile: %w", err)
	}
	return out.Close()
}
