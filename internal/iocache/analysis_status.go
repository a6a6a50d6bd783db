package iocache

import (
	"context"
	"fmt"

	"github.com/huangsam/gauge/schema"
)

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}

	if as.disabled() {
		return status, nil
	}

	// Get total snapshots
	row := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", as.table(snapshotsTable)))
	if err := row.Scan(&status.TotalSnapshots); err != nil {
		return status, fmt.Errorf("failed to get total snapshots: %w", err)
	}

	if status.TotalSnapshots > 0 {
		// Get last snapshot info
		var last dbTime
		row = as.db.QueryRow(fmt.Sprintf("SELECT snapshot_id, analysis_date FROM %s ORDER BY snapshot_id DESC LIMIT 1", as.table(snapshotsTable)))
		if err := row.Scan(&status.LastSnapshotID, &last); err != nil {
			return status, fmt.Errorf("failed to get last snapshot info: %w", err)
		}
		status.LastAnalysisTime = last.Time

		// Get oldest snapshot time
		var oldest dbTime
		row = as.db.QueryRow(fmt.Sprintf("SELECT analysis_date FROM %s ORDER BY snapshot_id ASC LIMIT 1", as.table(snapshotsTable)))
		if err := row.Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest snapshot time: %w", err)
		}
		status.OldestAnalysisTime = oldest.Time
	}

	// Get table sizes
	for _, table := range analysisTables {
		var count int64
		row = as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", as.table(table)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalComponents = int(status.TableSizes[componentsTable])

	return status, nil
}

// GetAllSnapshots retrieves every snapshot from the store.
func (as *AnalysisStoreImpl) GetAllSnapshots() ([]schema.SnapshotRecord, error) {
	// Skip for NoneBackend
	if as.disabled() {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY snapshot_id", snapshotColumns, as.table(snapshotsTable))
	return as.querySnapshots(context.Background(), query)
}

// GetAllMeasures retrieves every measure from the store.
func (as *AnalysisStoreImpl) GetAllMeasures() ([]schema.MeasureRecord, error) {
	// Skip for NoneBackend
	if as.disabled() {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY snapshot_id, component_uuid, metric_key", measureColumns, as.table(measuresTable))
	return as.queryMeasures(context.Background(), query)
}
