package cmd

import (
	"github.com/huangsam/gauge/core"
	"github.com/huangsam/gauge/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the metric catalog.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List the metrics known to the analysis",
	Long: `Print the metric catalog, including the custom metrics declared in the quality profile.

Shows for each metric its key, domain, value type, direction and best value.

Examples:
  gauge metrics
  gauge metrics --profile quality.yaml --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Failed to list metrics", err)
		}
	},
}
