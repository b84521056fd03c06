// SPDX-License-Identifier: MPL-2.0

// Package config loads the boxprep configuration: a TOML file under the
// platform config directory, read through viper with built-in defaults for
// a Debian-family image. The configuration is data for the pipeline
// (package lists, file paths, retry bounds), never logic.
package config
