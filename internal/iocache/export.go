package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/gauge/internal/parquet"
)

// ExecuteAnalysisExport performs the actual export of the archive to Parquet files.
func ExecuteAnalysisExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the analysis store
	store := Manager.GetAnalysisStore()
	if store == nil {
		return errors.New("analysis store is not initialized")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}

	if status.TotalSnapshots == 0 {
		return errors.New("no analysis data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total snapshots: %d\n", status.TotalSnapshots)
	fmt.Printf("Total measure records: %d\n", status.TableSizes[measuresTable])

	snapshots, err := store.GetAllSnapshots()
	if err != nil {
		return fmt.Errorf("failed to retrieve snapshots: %w", err)
	}
	measures, err := store.GetAllMeasures()
	if err != nil {
		return fmt.Errorf("failed to retrieve measures: %w", err)
	}

	// Write snapshots to Parquet
	snapshotsFile := outputFile + ".snapshots.parquet"
	if err := parquet.WriteSnapshotsParquet(parquet.ConvertSnapshotRecords(snapshots), snapshotsFile); err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}
	fmt.Printf("Exported %d snapshots to: %s\n", len(snapshots), snapshotsFile)

	// Write measures to Parquet
	measuresFile := outputFile + ".measures.parquet"
	if err := parquet.WriteMeasuresParquet(parquet.ConvertMeasureRecords(measures), measuresFile); err != nil {
		return fmt.Errorf("failed to write measures: %w", err)
	}
	fmt.Printf("Exported %d measure records to: %s\n", len(measures), measuresFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
