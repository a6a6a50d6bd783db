package schema

import "time"

// Snapshot statuses stored on each analysis row.
const (
	SnapshotUnprocessed = "U"
	SnapshotProcessed   = "P"
)

// SnapshotRecord represents a row from the gauge_snapshots table.
type SnapshotRecord struct {
	SnapshotID      int64
	ProjectUUID     string
	ProjectKey      string
	Version         string
	AnalysisDate    time.Time
	StartTime       time.Time
	EndTime         *time.Time
	RunDurationMs   *int32
	TotalComponents int32
	Status          string
	IsLast          bool
	Fingerprint     string
	ConfigParams    *string
}

// MeasureRecord represents a row from the gauge_measures table.
type MeasureRecord struct {
	SnapshotID       int64
	ComponentUUID    string
	MetricKey        string
	RuleID           int64
	CharacteristicID int64
	DeveloperID      string
	Value            *float64
	TextValue        *string
	Data             []byte
	AlertStatus      *string
	AlertText        *string
	Variations       [MaxPeriods]*float64
}

// ComponentUUID maps a stable component key to its uuid within a project.
type ComponentUUID struct {
	ProjectKey string
	Key        string
	UUID       string
}

// HistoryPoint is the archived value of one metric for one component at one snapshot.
type HistoryPoint struct {
	SnapshotID   int64     `json:"snapshot_id"`
	AnalysisDate time.Time `json:"analysis_date"`
	Version      string    `json:"version,omitempty"`
	Value        *float64  `json:"value,omitempty"`
	TextValue    *string   `json:"text_value,omitempty"`
}

// HistoryResult holds the archived values of one metric for one component.
type HistoryResult struct {
	ComponentKey string         `json:"component_key"`
	Metric       string         `json:"metric"`
	Points       []HistoryPoint `json:"points"`
}

// AnalysisStatus represents the status of the analysis store.
type AnalysisStatus struct {
	Backend            string           `json:"backend"`
	Connected          bool             `json:"connected"`
	TotalSnapshots     int              `json:"total_snapshots"`
	LastSnapshotID     int64            `json:"last_snapshot_id"`
	LastAnalysisTime   time.Time        `json:"last_analysis_time"`
	OldestAnalysisTime time.Time        `json:"oldest_analysis_time"`
	TotalComponents    int              `json:"total_components"`
	TableSizes         map[string]int64 `json:"table_sizes"`
}
