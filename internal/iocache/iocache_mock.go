package iocache

import (
	"context"

	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetAnalysisStore implements the StoreManager interface.
func (m *MockStoreManager) GetAnalysisStore() contract.AnalysisStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.AnalysisStore)
	return store
}

// MockAnalysisStore is a mock implementation of AnalysisStore for testing.
type MockAnalysisStore struct {
	mock.Mock
}

var _ contract.AnalysisStore = &MockAnalysisStore{} // Compile-time check

// Persist implements the AnalysisStore interface.
func (m *MockAnalysisStore) Persist(ctx context.Context, snapshot schema.SnapshotRecord, uuids []schema.ComponentUUID, measures []schema.MeasureRecord) (int64, error) {
	args := m.Called(ctx, snapshot, uuids, measures)
	return args.Get(0).(int64), args.Error(1)
}

// ComponentUUIDs implements the AnalysisStore interface.
func (m *MockAnalysisStore) ComponentUUIDs(ctx context.Context, projectKey string) (map[string]string, error) {
	args := m.Called(ctx, projectKey)
	uuids, _ := args.Get(0).(map[string]string)
	return uuids, args.Error(1)
}

// Snapshots implements the AnalysisStore interface.
func (m *MockAnalysisStore) Snapshots(ctx context.Context, projectUUID string) ([]schema.SnapshotRecord, error) {
	args := m.Called(ctx, projectUUID)
	snapshots, _ := args.Get(0).([]schema.SnapshotRecord)
	return snapshots, args.Error(1)
}

// ArchivedValues implements the AnalysisStore interface.
func (m *MockAnalysisStore) ArchivedValues(ctx context.Context, componentUUID string, snapshotIDs []int64) (map[int64]map[string]float64, error) {
	args := m.Called(ctx, componentUUID, snapshotIDs)
	values, _ := args.Get(0).(map[int64]map[string]float64)
	return values, args.Error(1)
}

// LastMeasures implements the AnalysisStore interface.
func (m *MockAnalysisStore) LastMeasures(ctx context.Context, componentUUID string) ([]schema.MeasureRecord, error) {
	args := m.Called(ctx, componentUUID)
	measures, _ := args.Get(0).([]schema.MeasureRecord)
	return measures, args.Error(1)
}

// MeasureHistory implements the AnalysisStore interface.
func (m *MockAnalysisStore) MeasureHistory(ctx context.Context, componentUUID, metricKey string) ([]schema.HistoryPoint, error) {
	args := m.Called(ctx, componentUUID, metricKey)
	points, _ := args.Get(0).([]schema.HistoryPoint)
	return points, args.Error(1)
}

// GetStatus implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetStatus() (schema.AnalysisStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.AnalysisStatus), args.Error(1)
}

// GetAllSnapshots implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllSnapshots() ([]schema.SnapshotRecord, error) {
	args := m.Called()
	snapshots, _ := args.Get(0).([]schema.SnapshotRecord)
	return snapshots, args.Error(1)
}

// GetAllMeasures implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllMeasures() ([]schema.MeasureRecord, error) {
	args := m.Called()
	measures, _ := args.Get(0).([]schema.MeasureRecord)
	return measures, args.Error(1)
}

// Close implements the AnalysisStore interface.
func (m *MockAnalysisStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
