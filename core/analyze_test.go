package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/gauge/core/metric"
	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/internal/iocache"
	"github.com/huangsam/gauge/internal/profile"
	"github.com/huangsam/gauge/internal/report"
	"github.com/huangsam/gauge/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shopReport renders a small report whose file holds the given lines of code.
func shopReport(date string, ncloc int, extra string) string {
	return fmt.Sprintf(`{
  "project_key": "shop",
  "version": "1.0",
  "analysis_date": %q,
  "components": [
    {"ref": 1, "type": "PROJECT", "children": [2]},
    {"ref": 2, "type": "DIRECTORY", "path": "src", "children": [3]},
    {"ref": 3, "type": "FILE", "path": "src/cart.go", "language": "go"}
  ],
  "measures": [
    {"ref": 3, "metric": "ncloc", "value": %d},
    {"ref": 3, "metric": "violations", "value": 0}%s
  ]
}`, date, ncloc, extra)
}

func decodeDoc(t *testing.T, body string) *report.Document {
	t.Helper()
	doc, err := report.Decode(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func memoryManager(t *testing.T) (*iocache.MockStoreManager, contract.AnalysisStore) {
	t.Helper()
	store, err := iocache.NewAnalysisStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetAnalysisStore").Return(store)
	return mgr, store
}

func gateProfile() *profile.Profile {
	prof := profile.Default()
	prof.Gate = &profile.GateConfig{
		Name:       "size",
		Conditions: []profile.ConditionConfig{{Metric: metric.NCLoc, Op: "GT", Error: "130"}},
	}
	return prof
}

func measureOf(t *testing.T, res *schema.AnalysisResult, componentKey, metricKey string) schema.MeasureView {
	t.Helper()
	for _, c := range res.Components {
		if c.Key != componentKey {
			continue
		}
		for _, m := range c.Measures {
			if m.Metric == metricKey {
				return m
			}
		}
	}
	require.Failf(t, "measure not found", "%s on %s", metricKey, componentKey)
	return schema.MeasureView{}
}

func TestAnalyzeReportWithoutStore(t *testing.T) {
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetAnalysisStore").Return(nil)
	cfg := &contract.Config{Precision: 1, Persist: true}

	res, err := AnalyzeReport(context.Background(), cfg, mgr, nil, decodeDoc(t, shopReport("2024-03-01T10:00:00Z", 120, "")))
	require.NoError(t, err)

	assert.Equal(t, "shop", res.ProjectKey)
	assert.Zero(t, res.SnapshotID)
	assert.Empty(t, res.Periods)
	assert.Nil(t, res.Gate)
	require.Len(t, res.Components, 3)
	assert.Equal(t, "shop", res.Components[0].Key)
	assert.Equal(t, "shop:src", res.Components[1].Key)
	assert.Equal(t, 1, res.Components[1].Depth)
	assert.Equal(t, "120", measureOf(t, res, "shop", metric.NCLoc).Value)
	assert.Equal(t, "1", measureOf(t, res, "shop", metric.Files).Value)
	assert.NotEmpty(t, res.Fingerprint)
}

func TestAnalyzeReportTracksHistory(t *testing.T) {
	ctx := context.Background()
	mgr, store := memoryManager(t)
	cfg := &contract.Config{
		Precision: 1,
		Persist:   true,
		Periods:   []schema.PeriodSetting{{Index: 1, Mode: schema.PreviousAnalysisMode}},
	}
	prof := gateProfile()

	// First analysis: nothing to compare with, the gate passes
	first, err := AnalyzeReport(ctx, cfg, mgr, prof, decodeDoc(t, shopReport("2024-03-01T10:00:00Z", 120, "")))
	require.NoError(t, err)
	assert.Positive(t, first.SnapshotID)
	assert.Empty(t, first.Periods)
	require.NotNil(t, first.Gate)
	assert.Equal(t, schema.OKLevel, first.Gate.Level)
	assert.Empty(t, first.Gate.Previous)

	uuids, err := store.ComponentUUIDs(ctx, "shop")
	require.NoError(t, err)
	assert.Len(t, uuids, 3)

	// Second analysis: variations against the first one, the gate now fails
	second, err := AnalyzeReport(ctx, cfg, mgr, prof, decodeDoc(t, shopReport("2024-03-10T10:00:00Z", 150, "")))
	require.NoError(t, err)
	assert.Greater(t, second.SnapshotID, first.SnapshotID)
	require.Len(t, second.Periods, 1)
	assert.Equal(t, first.SnapshotID, second.Periods[0].SnapshotID)

	ncloc := measureOf(t, second, "shop", metric.NCLoc)
	require.NotNil(t, ncloc.Variations[0])
	assert.Equal(t, 30.0, *ncloc.Variations[0])
	assert.Equal(t, schema.ErrorLevel, ncloc.AlertStatus)

	require.NotNil(t, second.Gate)
	assert.Equal(t, schema.ErrorLevel, second.Gate.Level)
	assert.Equal(t, schema.OKLevel, second.Gate.Previous)

	again, err := store.ComponentUUIDs(ctx, "shop")
	require.NoError(t, err)
	assert.Equal(t, uuids, again, "component uuids are stable across analyses")

	history, err := store.MeasureHistory(ctx, uuids["shop"], metric.NCLoc)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 120.0, *history[0].Value)
	assert.Equal(t, 150.0, *history[1].Value)
}

func TestAnalyzeReportDryRunPersistsNothing(t *testing.T) {
	ctx := context.Background()
	mgr, store := memoryManager(t)
	cfg := &contract.Config{Precision: 1}

	res, err := AnalyzeReport(ctx, cfg, mgr, nil, decodeDoc(t, shopReport("2024-03-01T10:00:00Z", 120, "")))
	require.NoError(t, err)
	assert.Zero(t, res.SnapshotID)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Zero(t, status.TotalSnapshots)
}

func TestAnalyzeReportFailurePersistsNothing(t *testing.T) {
	ctx := context.Background()
	mgr, store := memoryManager(t)
	cfg := &contract.Config{Persist: true}

	body := shopReport("2024-03-01T10:00:00Z", 120, `, {"ref": 3, "metric": "made_up", "value": 1}`)
	_, err := AnalyzeReport(ctx, cfg, mgr, nil, decodeDoc(t, body))
	require.Error(t, err)
	var pe *schema.PreconditionError
	assert.True(t, errors.As(err, &pe))
	assert.Contains(t, err.Error(), "step feed")

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Zero(t, status.TotalSnapshots)
	uuids, err := store.ComponentUUIDs(ctx, "shop")
	require.NoError(t, err)
	assert.Empty(t, uuids)
}

func TestAnalyzeReportRejectsInvalidGate(t *testing.T) {
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetAnalysisStore").Return(nil)
	prof := profile.Default()
	prof.Gate = &profile.GateConfig{Conditions: []profile.ConditionConfig{{Metric: "made_up", Op: "GT", Error: "1"}}}

	_, err := AnalyzeReport(context.Background(), &contract.Config{}, mgr, prof, decodeDoc(t, shopReport("2024-03-01T10:00:00Z", 1, "")))
	require.Error(t, err)
}

func writeReport(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestAnalyzeReportsKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	other := strings.Replace(shopReport("2024-03-05T10:00:00Z", 10, ""), `"shop"`, `"inventory"`, 1)
	cfg := &contract.Config{
		Workers: 4,
		Persist: true,
		ReportPaths: []string{
			writeReport(t, dir, "a.json", shopReport("2024-03-01T10:00:00Z", 120, "")),
			writeReport(t, dir, "b.json", other),
			writeReport(t, dir, "c.json", shopReport("2024-03-10T10:00:00Z", 150, "")),
		},
		Periods: []schema.PeriodSetting{{Index: 1, Mode: schema.PreviousAnalysisMode}},
	}
	mgr, _ := memoryManager(t)

	results, err := GetAnalysisResults(WithSuppressHeader(context.Background()), cfg, mgr)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "shop", results[0].ProjectKey)
	assert.Equal(t, "inventory", results[1].ProjectKey)
	assert.Equal(t, "shop", results[2].ProjectKey)

	// Reports of one project run in order, so the last one sees the first
	require.Len(t, results[2].Periods, 1)
	assert.Equal(t, results[0].SnapshotID, results[2].Periods[0].SnapshotID)
}

func TestAnalyzeReportsErrors(t *testing.T) {
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetAnalysisStore").Return(nil)
	ctx := WithSuppressHeader(context.Background())

	_, err := GetAnalysisResults(ctx, &contract.Config{Workers: 1}, mgr)
	assert.EqualError(t, err, "no report given")

	_, err = GetAnalysisResults(ctx, &contract.Config{Workers: 1, ReportPaths: []string{"/nonexistent/report.json"}}, mgr)
	assert.ErrorContains(t, err, "failed to open report")

	bad := writeReport(t, t.TempDir(), "bad.json", `{"project_key": "p", "components": []}`)
	_, err = GetAnalysisResults(ctx, &contract.Config{Workers: 1, ReportPaths: []string{bad}}, mgr)
	var pe *schema.PreconditionError
	assert.True(t, errors.As(err, &pe))
}

func TestAnalyzeReportFileLeavingBestValue(t *testing.T) {
	ctx := context.Background()
	mgr, store := memoryManager(t)
	cfg := &contract.Config{
		Precision: 1,
		Persist:   true,
		Periods:   []schema.PeriodSetting{{Index: 1, Mode: schema.PreviousAnalysisMode}},
	}

	_, err := AnalyzeReport(ctx, cfg, mgr, nil, decodeDoc(t, shopReport("2024-03-01T10:00:00Z", 120, "")))
	require.NoError(t, err)

	uuids, err := store.ComponentUUIDs(ctx, "shop")
	require.NoError(t, err)
	history, err := store.MeasureHistory(ctx, uuids["shop:src/cart.go"], metric.Violations)
	require.NoError(t, err)
	assert.Empty(t, history, "file violations at their best value are not archived")

	body := strings.Replace(shopReport("2024-03-10T10:00:00Z", 120, ""), `"metric": "violations", "value": 0`, `"metric": "violations", "value": 5`, 1)
	second, err := AnalyzeReport(ctx, cfg, mgr, nil, decodeDoc(t, body))
	require.NoError(t, err)

	file := measureOf(t, second, "shop:src/cart.go", metric.Violations)
	require.NotNil(t, file.Variations[0])
	assert.Equal(t, 5.0, *file.Variations[0])

	project := measureOf(t, second, "shop", metric.Violations)
	require.NotNil(t, project.Variations[0])
	assert.Equal(t, 5.0, *project.Variations[0])
}
