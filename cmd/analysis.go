package cmd

import (
	"fmt"

	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/internal/iocache"
	"github.com/huangsam/gauge/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// archiveConfig reads the backend settings without the full shared setup.
func archiveConfig() (schema.DatabaseBackend, string, error) {
	setConfigFile()
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("analysis-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("analysis-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// analysisSetup loads minimal configuration needed for archive operations.
// This is used by commands that need the archive without any report.
func analysisSetup() error {
	backend, connStr, err := archiveConfig()
	if err != nil {
		return err
	}
	if err := iocache.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize analysis: %w", err)
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// analysisSetupWrapper wraps analysisSetup to provide PreRunE for analysis commands.
func analysisSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisSetup()
}

// analysisMigrateSetup loads minimal configuration needed for migrate operations.
// It does NOT initialize stores or create tables, so migrations can run on a fresh database.
func analysisMigrateSetup() error {
	backend, connStr, err := archiveConfig()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetAnalysisDBFilePath()
	}
	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	return nil
}

// analysisMigrateSetupWrapper wraps analysisMigrateSetup to provide PreRunE for migrate command.
func analysisMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisMigrateSetup()
}

// analysisCmd focused on measure archive management.
var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage the measure archive and its exports",
	Long: `Manage the archived analyses used for variations and history.

Every persisted analysis stores:
- A snapshot (project, date, version, period anchors)
- Stable component identifiers
- Measure values, variations and alert statuses

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show archive statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all archived data
  migrate - Run database schema migrations

Examples:
  gauge analysis status
  gauge analysis export --output-file archive.parquet`,
}

// analysisClearCmd clears the archive.
var analysisClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all archived analyses",
	Long: `Delete all archived snapshots, components and measures.

WARNING: This action cannot be undone. Variations restart from scratch afterwards.
Consider exporting data first.

Examples:
  gauge analysis export --output-file backup.parquet
  gauge analysis clear`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the SQLite file before removing it
		iocache.CloseStores()
		if err := iocache.ClearAnalysis(cfg.AnalysisBackend, contract.GetAnalysisDBFilePath(), cfg.AnalysisDBConnect); err != nil {
			contract.LogFatal("Failed to clear analysis data", err)
		}
		fmt.Println("Analysis data cleared successfully.")
	},
}

// analysisStatusCmd shows archive status.
var analysisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display archive statistics and connection details",
	Long: `Show the backend, the number of snapshots, the oldest and latest analysis
and the size of each archive table.

Examples:
  gauge analysis status`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetAnalysisStore()
		if store == nil {
			contract.LogFatal("Failed to get analysis status", fmt.Errorf("no analysis backend configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get analysis status", err)
		}
		iocache.PrintAnalysisStatus(status)
	},
}

// analysisExportCmd exports the archive to Parquet files.
var analysisExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the archive to Parquet for BI tools and analytics",
	Long: `Export all archived data to Parquet format for use with analytics tools.

Writes two datasets next to --output-file:
- <file>.snapshots.parquet - one row per analysis
- <file>.measures.parquet  - one row per archived measure

Examples:
  gauge analysis export --output-file gauge-data
  duckdb -c "SELECT * FROM read_parquet('gauge-data.measures.parquet') LIMIT 10"`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteAnalysisExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

// analysisMigrateCmd runs database migrations for the archive.
var analysisMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the measure archive.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  gauge analysis migrate
  gauge analysis migrate --target-version 0`,
	PreRunE: analysisMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateAnalysis(cfg.AnalysisBackend, cfg.AnalysisDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
