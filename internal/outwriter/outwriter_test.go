package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func sampleAnalysis() *schema.AnalysisResult {
	return &schema.AnalysisResult{
		ProjectKey:   "shop",
		Version:      "1.2",
		AnalysisDate: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		SnapshotID:   7,
		Fingerprint:  "abc",
		Periods: []schema.Period{
			{Index: 1, Mode: schema.PreviousAnalysisMode, SnapshotID: 6, SnapshotDate: time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)},
		},
		Components: []schema.ComponentMeasures{
			{
				Key:  "shop",
				Type: schema.ProjectComponent,
				Measures: []schema.MeasureView{
					{Metric: "ncloc", Value: "120", Numeric: ptr(120), Variations: [schema.MaxPeriods]*float64{ptr(20)}},
					{Metric: "coverage", Value: "72.5", Numeric: ptr(72.5), AlertStatus: schema.ErrorLevel, AlertText: "Coverage < 80"},
				},
			},
			{
				Key:      "shop:src/cart.go",
				Type:     schema.FileComponent,
				Path:     "src/cart.go",
				Depth:    1,
				Measures: []schema.MeasureView{{Metric: "ncloc", Value: "120", Numeric: ptr(120), Variations: [schema.MaxPeriods]*float64{ptr(-3)}}},
			},
		},
		Gate: &schema.GateResult{
			Name:     "default",
			Level:    schema.ErrorLevel,
			Text:     "Coverage < 80",
			Previous: schema.OKLevel,
			Conditions: []schema.ConditionResult{
				{Metric: "coverage", Op: schema.LessThanOp, Error: "80", Actual: "72.5", Level: schema.ErrorLevel},
				{Metric: "new_violations", Op: schema.GreaterThanOp, Period: 1, Warning: "0", Actual: "0", Level: schema.OKLevel},
			},
		},
		DSM: []schema.DsmSummary{
			{Key: "shop", Entries: []string{"src"}, Cycles: 0, DataSize: 12},
			{Key: "shop:src", Skipped: true},
		},
	}
}

func TestWriteAnalysisText(t *testing.T) {
	cfg := &contract.Config{Precision: 1, Width: 160}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	require.NoError(t, writeAnalysisText(&buf, sampleAnalysis(), cfg, fmtFloat))
	out := buf.String()

	assert.Contains(t, out, "📊 shop  version 1.2")
	assert.Contains(t, out, "snapshot #7")
	assert.Contains(t, out, "Δ1 previous_analysis since")
	assert.Contains(t, out, "src/cart.go")
	assert.Contains(t, out, "+20.0")
	assert.Contains(t, out, "-3.0")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, `Quality gate "default": ERROR (was OK) Coverage < 80`)
}

func TestWriteCSVResultsForAnalysis(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	require.NoError(t, writeCSVResultsForAnalysis(&buf, []*schema.AnalysisResult{sampleAnalysis()}, fmtFloat))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, analysisCSVHeader, records[0])
	assert.Equal(t, []string{"shop", "7", "shop", "PROJECT", "0", "ncloc", "120", "+20.00", "", "", "", "", "", ""}, records[1])
	assert.Equal(t, "ERROR", records[2][12])
	assert.Equal(t, "Coverage < 80", records[2][13])
	assert.Equal(t, "-3.00", records[3][7])
}

func TestPrintAnalysisResultsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
	require.NoError(t, PrintAnalysisResults([]*schema.AnalysisResult{sampleAnalysis()}, cfg, time.Second))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(content, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "shop", got[0]["project_key"])
	assert.Equal(t, float64(7), got[0]["snapshot_id"])
	gate := got[0]["quality_gate"].(map[string]any)
	assert.Equal(t, "ERROR", gate["level"])
	assert.Equal(t, "OK", gate["previous"])
}

func TestWriteGateText(t *testing.T) {
	res := sampleAnalysis()

	var buf bytes.Buffer
	require.NoError(t, writeGateText(&buf, gateReport{ProjectKey: res.ProjectKey, Gate: res.Gate}, false))
	out := buf.String()
	assert.Contains(t, out, "🚦 shop")
	assert.Contains(t, out, "coverage")
	assert.Contains(t, out, "72.5")
	assert.Contains(t, out, "(was OK)")

	buf.Reset()
	require.NoError(t, writeGateText(&buf, gateReport{ProjectKey: "shop"}, false))
	assert.Equal(t, "🚦 shop: no quality gate configured\n", buf.String())
}

func TestWriteCSVGate(t *testing.T) {
	res := sampleAnalysis()

	var buf bytes.Buffer
	require.NoError(t, writeCSVGate(&buf, gateReport{ProjectKey: res.ProjectKey, Gate: res.Gate}))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"shop", "default", "coverage", "LT", "0", "", "80", "72.5", "ERROR"}, records[1])
	assert.Equal(t, "1", records[2][4])

	buf.Reset()
	require.NoError(t, writeCSVGate(&buf, gateReport{ProjectKey: "shop"}))
	assert.Equal(t, "project,gate,metric,op,period,warning,error,actual,level\n", buf.String())
}

func sampleHistory() *schema.HistoryResult {
	text := "OK"
	return &schema.HistoryResult{
		ComponentKey: "shop",
		Metric:       "coverage",
		Points: []schema.HistoryPoint{
			{SnapshotID: 1, AnalysisDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Version: "1.0", Value: ptr(70)},
			{SnapshotID: 2, AnalysisDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Version: "1.1", TextValue: &text},
			{SnapshotID: 3, AnalysisDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Version: "1.2", Value: ptr(72.5)},
		},
	}
}

func TestWriteHistoryTable(t *testing.T) {
	fmtFloat, _ := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeHistoryTable(&buf, sampleHistory(), fmtFloat))
	out := buf.String()
	assert.Contains(t, out, "📈 coverage on shop")
	assert.Contains(t, out, "70.0")
	assert.Contains(t, out, "+2.5")
	assert.Contains(t, out, "Showing 3 archived value(s)")
}

func TestWriteCSVHistory(t *testing.T) {
	fmtFloat, _ := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeCSVHistory(&buf, sampleHistory(), fmtFloat))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "70.0", records[1][5])
	assert.Equal(t, "OK", records[2][5])
	assert.Equal(t, "1.2", records[3][4])
}

func sampleMetrics() *schema.MetricsRenderModel {
	zero := 0.0
	return &schema.MetricsRenderModel{
		Title:       "Metrics",
		Description: "Catalog",
		Metrics: []schema.Metric{
			{ID: 1, Key: "ncloc", Name: "Lines of code", Domain: "Size", Type: schema.IntMetric, Direction: -1},
			{ID: 2, Key: "violations", Name: "Issues", Domain: "Issues", Type: schema.IntMetric, Direction: -1, BestValue: &zero, OptimizedBestValue: true},
			{ID: 3, Key: "new_lines", Name: "New lines", Domain: "Size", Type: schema.IntMetric, DeltaOnly: true},
			{ID: 4, Key: "dsm", Name: "Dependency matrix", Type: schema.DataMetric, Hidden: true},
		},
	}
}

func TestPrintMetricsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printMetricsText(&buf, sampleMetrics()))
	out := buf.String()
	assert.Contains(t, out, "Lines of code")
	assert.Contains(t, out, "lower is better")
	assert.Contains(t, out, "0*")
	assert.Contains(t, out, "New lines (per period)")
	assert.NotContains(t, out, "Dependency matrix")
}

func TestWriteCSVMetrics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVMetrics(&buf, sampleMetrics()))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"2", "violations", "Issues", "Issues", "INT", "-1", "0*", "true", "false", "false"}, records[2])
	assert.Equal(t, "true", records[4][9])
}

func TestFormatVariation(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	assert.Empty(t, formatVariation(nil, fmtFloat))
	assert.Equal(t, "+1.5", formatVariation(ptr(1.5), fmtFloat))
	assert.Equal(t, "-1.5", formatVariation(ptr(-1.5), fmtFloat))
	assert.Equal(t, "0.0", formatVariation(ptr(0), fmtFloat))
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "Δ1 previous_analysis", periodLabel(schema.Period{Index: 1, Mode: schema.PreviousAnalysisMode}))
	assert.Equal(t, "Δ3 days:30", periodLabel(schema.Period{Index: 3, Mode: schema.DaysMode, ModeParameter: "30"}))
}

func TestIndentKey(t *testing.T) {
	assert.Equal(t, "shop", indentKey("shop", 0, 40))
	assert.Equal(t, "    shop:src", indentKey("shop:src", 2, 40))
	long := strings.Repeat("x", 50)
	got := indentKey(long, 1, 20)
	assert.True(t, strings.HasPrefix(got, "  ..."))
	assert.Len(t, got, 20)
}

func TestAlertCell(t *testing.T) {
	assert.Empty(t, alertCell("", true))
	assert.Equal(t, "WARN", alertCell(schema.WarnLevel, false))
}

func TestGetMaxTablePathWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		columns  int
		expected int
	}{
		{name: "narrow terminal", width: 60, expected: 15},
		{name: "wide terminal", width: 300, expected: 70},
		{name: "room for keys", width: 120, expected: 60},
		{name: "variation columns", width: 120, columns: 2, expected: 36},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetMaxTablePathWidth(&contract.Config{Width: tt.width}, tt.columns))
		})
	}
}

func TestLogAnalysisHeader(t *testing.T) {
	cfg := &contract.Config{
		ReportPaths:     []string{"/tmp/reports/shop.json"},
		AnalysisBackend: schema.SQLiteBackend,
		Periods: []schema.PeriodSetting{
			{Index: 1, Mode: schema.PreviousAnalysisMode},
			{Index: 2, Mode: schema.DaysMode, Parameter: "30"},
		},
	}
	var buf bytes.Buffer
	LogAnalysisHeader(&buf, cfg)
	assert.Equal(t, "🔎 Reports: shop.json (Backend: sqlite, dry run)\n📅 Periods: 1=previous_analysis 2=days:30\n", buf.String())

	cfg.Persist = true
	cfg.Periods = nil
	buf.Reset()
	LogAnalysisHeader(&buf, cfg)
	assert.Equal(t, "🔎 Reports: shop.json (Backend: sqlite)\n📅 Periods: none\n", buf.String())
}
