// SPDX-License-Identifier: MPL-2.0

// Package stages assembles the concrete provisioning stages from
// configuration: system packages, toolchain versions, plugins, and dotfiles,
// in that fixed order. Later stages depend on files and binaries written by
// earlier ones (the version manager is installed by the system stage's
// environment, plugins are installed via a tool the toolchain stage
// provisions), so the order is not configurable.
//
// The stage definitions here are deliberately thin: each is a list of shell
// command lines and environment mutations built from config data, executed
// through the pipeline sequencer. All retry, cleanup, and failure semantics
// live in the pipeline, retry, and reclaim packages.
package stages
