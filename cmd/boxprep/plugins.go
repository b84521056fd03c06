// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"boxprep-cli/internal/config"
	"boxprep-cli/internal/pluginlist"

	"github.com/spf13/cobra"
)

// pluginsCmd shows the parsed plugin list without installing anything.
var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Show the parsed plugin list",
	Long: `Parse the configured plugin list file and print the plugin
identifiers that the plugin stage would install, in order. A missing list
file is not an error; the plugin stage simply installs nothing.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}

		listPath, err := config.ExpandHome(cfg.Plugins.ListFile)
		if err != nil {
			return err
		}

		plugins, err := pluginlist.Load(listPath)
		if err != nil {
			return err
		}

		if len(plugins) == 0 {
			fmt.Println(SubtitleStyle.Render("no plugins configured") + " (" + listPath + ")")
			return nil
		}

		fmt.Println(TitleStyle.Render("Plugins") + SubtitleStyle.Render(" ("+listPath+")"))
		for _, id := range plugins {
			fmt.Println("  " + CmdStyle.Render(id))
		}
		return nil
	},
}
