// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for boxprep.
//
// This package implements the Cobra command hierarchy for the boxprep CLI:
// the root command, the pipeline commands (up, stage), and the inspection
// commands (plugins, config).
package cmd
