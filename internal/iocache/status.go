package iocache

import (
	"fmt"
	"slices"

	"github.com/huangsam/gauge/schema"
)

// PrintAnalysisStatus prints analysis status information.
func PrintAnalysisStatus(status schema.AnalysisStatus) {
	fmt.Printf("Analysis Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Snapshots: %d\n", status.TotalSnapshots)
	if status.TotalSnapshots > 0 {
		fmt.Printf("Last Snapshot ID: %d\n", status.LastSnapshotID)
		fmt.Printf("Last Analysis: %s\n", status.LastAnalysisTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Analysis: %s\n", status.OldestAnalysisTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Total Components: %d\n", status.TotalComponents)
	fmt.Println("Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		fmt.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
}
