// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"boxprep-cli/internal/pipeline"
	"boxprep-cli/internal/stages"

	"github.com/spf13/cobra"
)

// stageCmd runs a single named stage. Running a late stage without its
// predecessors is allowed; the stage's own preconditions still apply.
var stageCmd = &cobra.Command{
	Use:       "stage <name>",
	Short:     "Run a single provisioning stage",
	Long:      "Run one stage by name. Valid names: " + strings.Join(stages.Names(), ", ") + ".",
	Args:      cobra.ExactArgs(1),
	ValidArgs: stages.Names(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}

		stageList, err := buildStages(cfg)
		if err != nil {
			return err
		}

		stage, ok := stages.ByName(stageList, args[0])
		if !ok {
			return fmt.Errorf("unknown stage %q (valid: %s)", args[0], strings.Join(stages.Names(), ", "))
		}

		return runStages(cmd.Context(), cfg, []pipeline.Stage{stage})
	},
}
