package cmd

import (
	"github.com/huangsam/gauge/core"
	"github.com/huangsam/gauge/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd computes the measures of one or more reports.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <report.json>...",
	Short: "Aggregate the measures of reports and compare them with past analyses",
	Long: `Aggregate the file measures of each report up to the project, compute the
variations against the configured periods, evaluate the quality gate and archive
the result.

Each report is a JSON document with a component tree and raw file measures.
Reports of different projects run concurrently; reports of one project run in
the order given, so each one sees the previous one as its past analysis.

Periods:
  previous_analysis   the last archived analysis
  days:N              the first analysis at least N days old
  date:YYYY-MM-DD     the first analysis on or after the date
  version:V           the first analysis of version V

Examples:
  # Analyze a report and compare with the previous analysis
  gauge analyze report.json

  # Compare with the previous analysis and with 30 days ago
  gauge analyze report.json --periods "1:previous_analysis,2:days:30"

  # Preview without archiving
  gauge analyze report.json --persist no --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Analysis failed", err)
		}
	},
}
