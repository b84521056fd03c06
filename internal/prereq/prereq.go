// SPDX-License-Identifier: MPL-2.0

// Package prereq checks that the external binaries a stage wraps are
// actually present before the stage starts invoking them.
package prereq

import (
	"fmt"
	"os/exec"
)

// lookPath is swappable in tests.
var lookPath = exec.LookPath

// Binary returns nil when name resolves in PATH.
func Binary(name string) error {
	if _, err := lookPath(name); err != nil {
		return fmt.Errorf("required binary %q not found in PATH: %w", name, err)
	}
	return nil
}
