// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"boxprep-cli/internal/issue"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "boxprep"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
)

// configDirOverride lets tests redirect the config directory.
var configDirOverride string

// SetConfigDirOverride redirects ConfigDir to dir. Pass "" to restore the
// platform default. Intended for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// ConfigDir returns the boxprep configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DefaultConfigPath returns the full path of the config file.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// ExpandHome replaces a leading ~/ with the user's home directory. Paths
// without the prefix are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("dry_run", defaults.DryRun)
	v.SetDefault("system.manager", defaults.System.Manager)
	v.SetDefault("system.upgrade", defaults.System.Upgrade)
	v.SetDefault("system.base_packages", defaults.System.BasePackages)
	v.SetDefault("system.bundles", defaults.System.Bundles)
	v.SetDefault("toolchain.manager", defaults.Toolchain.Manager)
	v.SetDefault("toolchain.versions_file", defaults.Toolchain.VersionsFile)
	v.SetDefault("plugins.install_command", defaults.Plugins.InstallCommand)
	v.SetDefault("plugins.list_file", defaults.Plugins.ListFile)
	v.SetDefault("retry.attempts", defaults.Retry.Attempts)
	v.SetDefault("retry.delay", defaults.Retry.Delay)
	v.SetDefault("cleanup.extra_patterns", defaults.Cleanup.ExtraPatterns)

	resolvedPath := ""

	// An explicit --config path is used exclusively and must exist.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'boxprep config init' to create a default config").
				WithIssueId(issue.ConfigLoadFailedId).
				BuildError()
		}
		v.SetConfigFile(opts.ConfigFilePath)
		resolvedPath = opts.ConfigFilePath
	} else {
		dir := opts.ConfigDirPath
		if dir == "" {
			var err error
			dir, err = ConfigDir()
			if err != nil {
				return nil, "", err
			}
		}
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		v.AddConfigPath(dir)
		resolvedPath = filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFilePath == "" && errors.As(err, &notFound) {
			// No config file is fine; the defaults stand.
			return defaults, "", nil
		}
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check the TOML syntax").
			WithIssueId(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("parse configuration").
			WithResource(resolvedPath).
			WithIssueId(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return cfg, resolvedPath, nil
}

// defaultConfigTOML is the commented starter config written by
// `boxprep config init`. It mirrors DefaultConfig.
const defaultConfigTOML = `# boxprep configuration

# dry_run = false

[system]
manager = "apt-get"
upgrade = true
base_packages = ["ca-certificates", "curl", "git", "unzip"]
# bundles are feature-bundle installer scripts run after the base set
# bundles = ["/opt/features/docker-in-docker.sh"]

[toolchain]
manager = "mise"
versions_file = "~/.config/mise/config.toml"

[plugins]
install_command = "mise plugins install"
list_file = "~/.config/boxprep/plugins.txt"

[retry]
attempts = 5
delay = "2s"

[cleanup]
# extra_patterns = ["/tmp/provision-*"]

# [[dotfiles.entries]]
# source = "~/dotfiles/zshrc"
# target = "~/.zshrc"
`

// CreateDefaultConfig writes the commented starter config to the config
// path. It refuses to overwrite an existing file.
func CreateDefaultConfig() (string, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return "", err
	}
	if fileExists(path) {
		return path, fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTOML), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
