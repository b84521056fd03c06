// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"boxprep-cli/internal/config"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// configCmd is the `boxprep config` command tree.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage boxprep configuration",
	Long: `Manage boxprep configuration.

Configuration is stored in:
  - Linux: ~/.config/boxprep/config.toml
  - macOS: ~/Library/Application Support/boxprep/config.toml
  - Windows: %APPDATA%\boxprep\config.toml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective configuration as TOML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return initConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfigPath()
		},
	})
}

// tomlView mirrors config.Config for display. Durations render as strings
// ("2s") instead of the raw nanosecond integers go-toml would emit.
type tomlView struct {
	DryRun    bool                   `toml:"dry_run"`
	System    config.SystemConfig    `toml:"system"`
	Toolchain config.ToolchainConfig `toml:"toolchain"`
	Plugins   config.PluginsConfig   `toml:"plugins"`
	Dotfiles  config.DotfilesConfig  `toml:"dotfiles"`
	Retry     retryView              `toml:"retry"`
	Cleanup   config.CleanupConfig   `toml:"cleanup"`
}

type retryView struct {
	Attempts uint   `toml:"attempts"`
	Delay    string `toml:"delay"`
}

func showConfig(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	view := tomlView{
		DryRun:    cfg.DryRun,
		System:    cfg.System,
		Toolchain: cfg.Toolchain,
		Plugins:   cfg.Plugins,
		Dotfiles:  cfg.Dotfiles,
		Retry:     retryView{Attempts: cfg.Retry.Attempts, Delay: cfg.Retry.Delay.String()},
		Cleanup:   cfg.Cleanup,
	}

	out, err := toml.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}

	fmt.Println(TitleStyle.Render("Effective Configuration"))
	fmt.Println()
	fmt.Print(string(out))
	return nil
}

func initConfig() error {
	path, err := config.CreateDefaultConfig()
	if err != nil {
		return err
	}

	fmt.Println(SuccessStyle.Render("✓ created ") + CmdStyle.Render(path))
	return nil
}

func showConfigPath() error {
	path, err := config.DefaultConfigPath()
	if err != nil {
		return err
	}

	fmt.Println(path)
	return nil
}
