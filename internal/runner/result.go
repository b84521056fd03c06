// SPDX-License-Identifier: MPL-2.0

package runner

import "fmt"

type (
	// Result contains the outcome of a script execution.
	Result struct {
		// ExitCode is the process exit status. Zero means success.
		ExitCode ExitCode
		// Error is set for infrastructure failures (shell missing, parse
		// error). A non-zero exit from an otherwise healthy execution sets
		// ExitCode only.
		Error error
	}

	// ExitStatusError carries a non-zero exit status through an error chain
	// so the pipeline's overall exit status can reflect the real failing
	// command, not a synthesized code.
	ExitStatusError struct {
		Code ExitCode
	}
)

// Error implements the error interface.
func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination
// rather than infrastructure failures.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}

// Ok reports whether the execution succeeded.
func (r *Result) Ok() bool {
	return r.Error == nil && r.ExitCode.IsSuccess()
}

// Err converts the result into an error: nil on success, the infrastructure
// error when present, otherwise an ExitStatusError for the non-zero exit.
func (r *Result) Err() error {
	if r.Error != nil {
		return r.Error
	}
	if !r.ExitCode.IsSuccess() {
		return &ExitStatusError{Code: r.ExitCode}
	}
	return nil
}
