// SPDX-License-Identifier: MPL-2.0

// Package runner provides shell script execution for provisioning actions.
//
// Two runners are available: NativeRunner delegates to the system shell via
// os/exec, while VirtualRunner executes scripts with an embedded POSIX shell
// (mvdan/sh) and therefore works even on hosts where no shell has been
// configured yet. Both consume the explicit hostenv.Env threaded through the
// pipeline rather than the ambient process environment.
package runner

import (
	"context"
	"io"
	"os"
	"strconv"

	"boxprep-cli/internal/hostenv"
)

// Runner name constants.
const (
	NameNative  = "native"
	NameVirtual = "virtual"
)

type (
	// ExitCode represents a process exit status code (0-255 on POSIX).
	// The zero value means success.
	ExitCode int

	// Script is a unit of shell source to execute.
	Script struct {
		// Source is the shell script text.
		Source string
		// Dir is the working directory; empty means the process cwd.
		Dir string
	}

	// IO carries the standard streams for a script execution. Zero-value
	// fields fall back to the process streams.
	IO struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Runner executes shell scripts against an explicit environment.
	Runner interface {
		// Name returns the runner name.
		Name() string
		// Available reports whether this runner can execute on this host.
		Available() bool
		// Run executes the script and returns its result. The returned
		// Result is never nil.
		Run(ctx context.Context, script Script, env *hostenv.Env) *Result
	}
)

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// stdin returns the configured stdin or the process stdin.
func (s IO) stdin() io.Reader {
	if s.Stdin != nil {
		return s.Stdin
	}
	return os.Stdin
}

// stdout returns the configured stdout or the process stdout.
func (s IO) stdout() io.Writer {
	if s.Stdout != nil {
		return s.Stdout
	}
	return os.Stdout
}

// stderr returns the configured stderr or the process stderr.
func (s IO) stderr() io.Writer {
	if s.Stderr != nil {
		return s.Stderr
	}
	return os.Stderr
}
