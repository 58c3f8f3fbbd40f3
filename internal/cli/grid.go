/*
PURPOSE:
  Defines the 'grid' subcommand.
  Prints every parameter combination in the order the sweep evaluates them.

REQUIREMENTS:
  Implementation-discovered:
  - Lets a user check a config's grid (and its size) without a server.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.NewGrid()

USAGE:
  relevance-tuner grid --config tuner.yaml
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/relevance-tuner/internal/engine"
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "List the parameter grid in evaluation order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		g := engine.NewGrid(cfg.Grid)
		cells := g.Cells()
		out := cmd.OutOrStdout()
		for i, params := range cells {
			fmt.Fprintf(out, "%4d  %s\n", i+1, params)
		}
		fmt.Fprintf(out, "%d cells (%d sample queries each)\n", len(cells), cfg.SampleSize)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gridCmd)
}
