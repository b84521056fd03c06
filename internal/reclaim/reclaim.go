// SPDX-License-Identifier: MPL-2.0

// Package reclaim removes transient provisioning artifacts: temp
// directories, package-manager caches, installer logs, interpreter bytecode
// caches, and VCS metadata left behind by cloning installers.
//
// Every removal is best-effort. Provisioning must fail loudly on real
// problems, but never because there was nothing left to clean up, so a
// missing path or a failed deletion is logged and skipped. Reclaim has no
// error return at all.
package reclaim

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

type (
	// Target describes one reclaim sweep as a glob pattern. Declaring sweeps
	// as data keeps each stage's cleanup list independently testable.
	Target struct {
		// Pattern is a filepath.Glob pattern; every match is removed
		// recursively.
		Pattern string
		// Label names the artifact class for log output (optional).
		Label string
	}

	// Reclaimer performs best-effort removal sweeps.
	Reclaimer struct {
		logger *log.Logger
	}
)

// New creates a Reclaimer that reports skipped or failed removals on logger.
func New(logger *log.Logger) *Reclaimer {
	return &Reclaimer{logger: logger}
}

// Reclaim removes everything matching the targets' patterns. It never fails:
// unmatched patterns and removal errors are logged and the sweep continues.
func (r *Reclaimer) Reclaim(targets []Target) {
	for _, target := range targets {
		r.reclaimOne(target)
	}
}

func (r *Reclaimer) reclaimOne(target Target) {
	logger := r.logger
	if target.Label != "" {
		logger = logger.With("artifact", target.Label)
	}

	matches, err := filepath.Glob(target.Pattern)
	if err != nil {
		// Only malformed patterns error here; treat them as a no-op sweep.
		logger.Warn("skipping malformed reclaim pattern", "pattern", target.Pattern, "err", err)
		return
	}
	if len(matches) == 0 {
		logger.Debug("nothing to reclaim", "pattern", target.Pattern)
		return
	}

	for _, path := range matches {
		if err := os.RemoveAll(path); err != nil {
			logger.Warn("could not reclaim path", "path", path, "err", err)
			continue
		}
		logger.Debug("reclaimed", "path", path)
	}
}
