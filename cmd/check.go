package cmd

import (
	"errors"

	"github.com/huangsam/gauge/core"
	"github.com/huangsam/gauge/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check <report.json>...",
	Short: "Evaluate the quality gate for CI/CD pipelines (fails build on ERROR)",
	Long: `Analyze the reports like 'analyze' does and print only the quality gate verdict.

The gate is declared in the quality profile. It exits with a non-zero code when a gate
is ERROR, or WARN with --fail-on-warn.

Examples:
  # Gate a pull request build
  gauge check report.json --profile quality.yaml --persist no

  # Treat warnings as failures
  gauge check report.json --profile quality.yaml --fail-on-warn`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := core.ExecuteCheck(rootCtx, cfg, storeManager)
		if errors.Is(err, core.ErrGateFailed) {
			contract.LogFatal("Quality gate check failed", err)
		}
		if err != nil {
			contract.LogFatal("Analysis failed", err)
		}
	},
}
