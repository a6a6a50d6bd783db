// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/gauge/schema"
)

// StoreManager defines the interface for reaching the persistent stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetAnalysisStore() AnalysisStore
}

// AnalysisStore defines the interface for snapshots and archived measures.
type AnalysisStore interface {
	// --- Write path ---

	// Persist records one analysis in a single transaction: the snapshot row, the new component
	// uuids and every measure. The snapshot becomes the last processed one of its project.
	Persist(ctx context.Context, snapshot schema.SnapshotRecord, uuids []schema.ComponentUUID, measures []schema.MeasureRecord) (int64, error)

	// --- Read path used by a run ---

	// ComponentUUIDs returns the stored uuids of a project, keyed by component key.
	ComponentUUIDs(ctx context.Context, projectKey string) (map[string]string, error)

	// Snapshots returns every snapshot of a project, oldest first.
	Snapshots(ctx context.Context, projectUUID string) ([]schema.SnapshotRecord, error)

	// ArchivedValues returns the numeric values of a component at the given snapshots,
	// keyed by snapshot id then metric key.
	ArchivedValues(ctx context.Context, componentUUID string, snapshotIDs []int64) (map[int64]map[string]float64, error)

	// LastMeasures returns the unscoped measures of a component at the last processed snapshot.
	LastMeasures(ctx context.Context, componentUUID string) ([]schema.MeasureRecord, error)

	// MeasureHistory returns the archived values of one metric for one component.
	MeasureHistory(ctx context.Context, componentUUID, metricKey string) ([]schema.HistoryPoint, error)

	// --- Administration ---

	// GetStatus returns status information about the analysis store.
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllSnapshots returns every snapshot row, for export.
	GetAllSnapshots() ([]schema.SnapshotRecord, error)

	// GetAllMeasures returns every measure row, for export.
	GetAllMeasures() ([]schema.MeasureRecord, error)

	// Close closes the underlying connection.
	Close() error
}
