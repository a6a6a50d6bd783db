package schema

import "time"

// MeasureView is the presentation form of one measure.
type MeasureView struct {
	Metric      string               `json:"metric"`
	Value       string               `json:"value,omitempty"`
	Numeric     *float64             `json:"numeric,omitempty"`
	Variations  [MaxPeriods]*float64 `json:"variations"`
	AlertStatus Level                `json:"alert_status,omitempty"`
	AlertText   string               `json:"alert_text,omitempty"`
}

// ComponentMeasures groups the measures of one component.
type ComponentMeasures struct {
	Key      string        `json:"key"`
	Type     ComponentType `json:"type"`
	Path     string        `json:"path,omitempty"`
	Depth    int           `json:"depth"`
	Measures []MeasureView `json:"measures"`
}

// DsmSummary describes the dependency matrix computed on one node.
type DsmSummary struct {
	Key      string   `json:"key"`
	Entries  []string `json:"entries"`
	Rollups  []Rollup `json:"rollups"`
	Cycles   int      `json:"cycles"`
	Tangled  int      `json:"tangled"`
	Skipped  bool     `json:"skipped,omitempty"`
	DataSize int      `json:"data_size"`
}

// AnalysisResult is everything an analysis run produced, ready for rendering.
type AnalysisResult struct {
	ProjectKey   string              `json:"project_key"`
	Version      string              `json:"version,omitempty"`
	AnalysisDate time.Time           `json:"analysis_date"`
	SnapshotID   int64               `json:"snapshot_id,omitempty"`
	Fingerprint  string              `json:"fingerprint"`
	Periods      []Period            `json:"periods,omitempty"`
	Components   []ComponentMeasures `json:"components"`
	Gate         *GateResult         `json:"quality_gate,omitempty"`
	DSM          []DsmSummary        `json:"dsm,omitempty"`
	Duration     time.Duration       `json:"duration"`
}

// MetricsRenderModel contains the metric catalog for display.
type MetricsRenderModel struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Metrics     []Metric `json:"metrics"`
}
