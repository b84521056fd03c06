// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"boxprep-cli/internal/hostenv"
	"boxprep-cli/internal/issue"
)

// NativeRunner executes scripts using the system shell.
type NativeRunner struct {
	// Shell overrides the default shell binary.
	Shell string
	// ShellArgs are arguments passed to the shell before the script.
	ShellArgs []string
	// IO carries the standard streams; zero value uses the process streams.
	IO IO
}

// NewNativeRunner creates a native runner using the default system shell.
func NewNativeRunner() *NativeRunner {
	return &NativeRunner{}
}

// Name returns the runner name.
func (r *NativeRunner) Name() string {
	return NameNative
}

// Available returns whether a usable shell exists on this host.
func (r *NativeRunner) Available() bool {
	_, err := r.getShell()
	return err == nil
}

// Run executes the script through the system shell.
func (r *NativeRunner) Run(ctx context.Context, script Script, env *hostenv.Env) *Result {
	shell, err := r.getShell()
	if err != nil {
		return NewErrorResult(1, err)
	}

	args := append(r.getShellArgs(), script.Source)
	cmd := exec.CommandContext(ctx, shell, args...)
	if script.Dir != "" {
		cmd.Dir = script.Dir
	}
	cmd.Env = env.Environ()
	cmd.Stdin = r.IO.stdin()
	cmd.Stdout = r.IO.stdout()
	cmd.Stderr = r.IO.stderr()

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return NewExitCodeResult(ExitCode(exitErr.ExitCode()))
		}
		return NewErrorResult(1, fmt.Errorf("failed to execute script: %w", err))
	}

	return NewSuccessResult()
}

// getShell resolves the shell binary to use.
func (r *NativeRunner) getShell() (string, error) {
	if r.Shell != "" {
		if _, err := exec.LookPath(r.Shell); err != nil {
			return "", issue.NewErrorContext().
				WithOperation("locate configured shell").
				WithResource(r.Shell).
				WithIssueId(issue.ShellNotFoundId).
				Wrap(err).
				BuildError()
		}
		return r.Shell, nil
	}

	for _, candidate := range []string{"bash", "sh"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", issue.NewErrorContext().
		WithOperation("locate a usable shell").
		WithSuggestion("Install bash or a POSIX sh in the base image").
		WithIssueId(issue.ShellNotFoundId).
		BuildError()
}

// getShellArgs returns the arguments preceding the script text.
func (r *NativeRunner) getShellArgs() []string {
	if len(r.ShellArgs) > 0 {
		return r.ShellArgs
	}
	return []string{"-c"}
}
