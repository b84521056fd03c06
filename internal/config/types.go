// SPDX-License-Identifier: MPL-2.0

package config

import (
	"time"
)

type (
	// Config is the effective boxprep configuration. Package names, plugin
	// identifiers, and dotfile entries are opaque data consumed by the
	// pipeline; boxprep attaches no semantics to them.
	Config struct {
		// DryRun logs the commands each stage would run without executing them.
		DryRun bool `mapstructure:"dry_run" toml:"dry_run"`

		System    SystemConfig    `mapstructure:"system" toml:"system"`
		Toolchain ToolchainConfig `mapstructure:"toolchain" toml:"toolchain"`
		Plugins   PluginsConfig   `mapstructure:"plugins" toml:"plugins"`
		Dotfiles  DotfilesConfig  `mapstructure:"dotfiles" toml:"dotfiles"`
		Retry     RetryConfig     `mapstructure:"retry" toml:"retry"`
		Cleanup   CleanupConfig   `mapstructure:"cleanup" toml:"cleanup"`
	}

	// SystemConfig drives the system package stage.
	SystemConfig struct {
		// Manager is the package manager binary (e.g. apt-get).
		Manager string `mapstructure:"manager" toml:"manager"`
		// Upgrade runs a full upgrade after refreshing the package index.
		Upgrade bool `mapstructure:"upgrade" toml:"upgrade"`
		// BasePackages are installed in one transaction.
		BasePackages []string `mapstructure:"base_packages" toml:"base_packages"`
		// Bundles are feature-bundle installer scripts run after the base set.
		Bundles []string `mapstructure:"bundles" toml:"bundles"`
	}

	// ToolchainConfig drives the tool version-manager stage.
	ToolchainConfig struct {
		// Manager is the version-manager binary (e.g. mise).
		Manager string `mapstructure:"manager" toml:"manager"`
		// VersionsFile is the tool-versions configuration that must be
		// trusted before installs run. Must exist; a ~/ prefix is expanded.
		VersionsFile string `mapstructure:"versions_file" toml:"versions_file"`
	}

	// PluginsConfig drives the plugin stage.
	PluginsConfig struct {
		// InstallCommand is the command line a plugin identifier is appended
		// to, one invocation per plugin. Its first word is the installer
		// binary that must be present once the toolchain stage has run.
		InstallCommand string `mapstructure:"install_command" toml:"install_command"`
		// ListFile is the plugin list path; a ~/ prefix is expanded.
		// A missing file means no plugins are installed.
		ListFile string `mapstructure:"list_file" toml:"list_file"`
	}

	// DotfileEntry links one configuration file into the home directory.
	DotfileEntry struct {
		// Source is the file to link or copy; a ~/ prefix is expanded.
		Source string `mapstructure:"source" toml:"source"`
		// Target is the destination path; a ~/ prefix is expanded.
		Target string `mapstructure:"target" toml:"target"`
	}

	// DotfilesConfig drives the dotfile stage.
	DotfilesConfig struct {
		Entries []DotfileEntry `mapstructure:"entries" toml:"entries"`
	}

	// RetryConfig bounds retries for network-flaky installer actions.
	RetryConfig struct {
		// Attempts is the total attempt budget.
		Attempts uint `mapstructure:"attempts" toml:"attempts"`
		// Delay is the fixed pause between attempts.
		Delay time.Duration `mapstructure:"delay" toml:"delay"`
	}

	// CleanupConfig adds operator-defined reclaim patterns swept after the
	// final stage, on top of each stage's built-in cleanup.
	CleanupConfig struct {
		ExtraPatterns []string `mapstructure:"extra_patterns" toml:"extra_patterns"`
	}
)

// DefaultConfig returns the built-in configuration, targeting a Debian-family
// container image with mise as the tool version manager.
func DefaultConfig() *Config {
	return &Config{
		System: SystemConfig{
			Manager: "apt-get",
			Upgrade: true,
			BasePackages: []string{
				"ca-certificates",
				"curl",
				"git",
				"unzip",
			},
		},
		Toolchain: ToolchainConfig{
			Manager:      "mise",
			VersionsFile: "~/.config/mise/config.toml",
		},
		Plugins: PluginsConfig{
			InstallCommand: "mise plugins install",
			ListFile:       "~/.config/boxprep/plugins.txt",
		},
		Retry: RetryConfig{
			Attempts: 5,
			Delay:    2 * time.Second,
		},
	}
}
