// Package cmd defines the command-line interface for gauge.
package cmd

import (
	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or toon or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for variations")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of reports analyzed concurrently")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log pipeline steps to stderr")
	rootCmd.PersistentFlags().String("profile", "", "Path to a quality profile (yaml, toml or json) with metrics, gate and rating model")
	rootCmd.PersistentFlags().String("analysis-backend", string(schema.SQLiteBackend), "Measure archive backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("pprof", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// analyzeCmd and checkCmd share flag names, so sharedSetup binds them for the running command
	for _, c := range []*cobra.Command{analyzeCmd, checkCmd} {
		c.Flags().String("periods", contract.DefaultPeriods, "Comparison periods, e.g. '1:previous_analysis,2:days:30,3:version:1.2'")
		c.Flags().String("analysis-date", "", "Override the analysis date (ISO8601, YYYY-MM-DD or time ago)")
		c.Flags().String("project-version", "", "Override the project version of the reports")
		c.Flags().Int("dsm-threshold", contract.DefaultDSMThreshold, "Largest subtree, in components, for which a DSM is computed")
		c.Flags().String("persist", "", "Archive the analysis (yes/no); defaults to yes")
	}
	checkCmd.Flags().Bool("fail-on-warn", false, "Also fail when the quality gate is WARN")

	// Bind all flags of historyCmd to Viper
	historyCmd.Flags().String("project", "", "Project key")
	historyCmd.Flags().String("component", "", "Component key (defaults to the project)")
	historyCmd.Flags().String("metric", "", "Metric key")
	if err := viper.BindPFlags(historyCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history flags", err)
	}

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}
