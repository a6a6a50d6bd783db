package cmd

import (
	"github.com/huangsam/gauge/core"
	"github.com/huangsam/gauge/internal/contract"
	"github.com/spf13/cobra"
)

// historyCmd prints the archived values of a metric.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the archived values of a metric on a component",
	Long: `Read the measure archive and print one line per analysis for a metric.

Examples:
  # Lines of code of the project over time
  gauge history --project shop --metric ncloc

  # Coverage of one directory
  gauge history --component shop:src/cart --metric coverage --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistory(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Failed to read history", err)
		}
	},
}
