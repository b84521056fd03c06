// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"boxprep-cli/internal/hostenv"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRunner executes scripts with an embedded POSIX shell (mvdan/sh).
// It needs no shell binary on the host, which makes it usable for the very
// first provisioning actions on a bare container image.
type VirtualRunner struct {
	// IO carries the standard streams; zero value uses the process streams.
	IO IO
}

// NewVirtualRunner creates a new virtual runner.
func NewVirtualRunner() *VirtualRunner {
	return &VirtualRunner{}
}

// Name returns the runner name.
func (r *VirtualRunner) Name() string {
	return NameVirtual
}

// Available returns whether this runner is available. The virtual runner is
// built in, so it always is.
func (r *VirtualRunner) Available() bool {
	return true
}

// Validate parses the script without executing it.
func (r *VirtualRunner) Validate(script Script) error {
	if strings.TrimSpace(script.Source) == "" {
		return errors.New("script has no content to execute")
	}
	if _, err := syntax.NewParser().Parse(strings.NewReader(script.Source), "script"); err != nil {
		return fmt.Errorf("script syntax error: %w", err)
	}
	return nil
}

// Run executes the script with the embedded shell interpreter.
func (r *VirtualRunner) Run(ctx context.Context, script Script, env *hostenv.Env) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script.Source), "script")
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to parse script: %w", err))
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env.Environ()...)),
		interp.StdIO(r.IO.stdin(), r.IO.stdout(), r.IO.stderr()),
	}
	if script.Dir != "" {
		opts = append(opts, interp.Dir(script.Dir))
	}

	sh, err := interp.New(opts...)
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to create interpreter: %w", err))
	}

	if err := sh.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return NewExitCodeResult(ExitCode(exitStatus))
		}
		return NewErrorResult(1, fmt.Errorf("script execution failed: %w", err))
	}

	return NewSuccessResult()
}
