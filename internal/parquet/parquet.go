// Package parquet provides data structures and functions for exporting the
// measure archive to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/gauge/schema"
	"github.com/parquet-go/parquet-go"
)

// Snapshot represents one analysis of a project.
// This struct maps to the gauge_snapshots database table.
type Snapshot struct {
	// SnapshotID is the unique identifier for this analysis
	SnapshotID int64 `parquet:"snapshot_id,snappy"`

	ProjectUUID string `parquet:"project_uuid,snappy,dict"`
	ProjectKey  string `parquet:"project_key,snappy,dict"`
	Version     string `parquet:"version,snappy,dict"`

	// AnalysisDate is the date the measures are attached to (stored as TIMESTAMP with nanosecond precision)
	AnalysisDate time.Time `parquet:"analysis_date,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalComponents int32  `parquet:"total_components,snappy"`
	Status          string `parquet:"status,snappy,dict"`
	IsLast          bool   `parquet:"is_last,snappy"`

	// Fingerprint is the blake3 digest of the report that produced the analysis
	Fingerprint string `parquet:"fingerprint,snappy"`

	// ConfigParams contains the JSON-encoded run configuration (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// Measure represents one archived measure.
// This struct maps to the gauge_measures database table.
type Measure struct {
	SnapshotID       int64  `parquet:"snapshot_id,snappy"`
	ComponentUUID    string `parquet:"component_uuid,snappy,dict"`
	MetricKey        string `parquet:"metric_key,snappy,dict"`
	RuleID           int64  `parquet:"rule_id,snappy"`
	CharacteristicID int64  `parquet:"characteristic_id,snappy"`
	DeveloperID      string `parquet:"developer_id,snappy,dict"`

	Value       *float64 `parquet:"value,optional,snappy"`
	TextValue   *string  `parquet:"text_value,optional,snappy"`
	Data        []byte   `parquet:"measure_data,optional,snappy"`
	AlertStatus *string  `parquet:"alert_status,optional,snappy,dict"`
	AlertText   *string  `parquet:"alert_text,optional,snappy"`

	// Variations against the five periods (nullable)
	Variation1 *float64 `parquet:"variation_value_1,optional,snappy"`
	Variation2 *float64 `parquet:"variation_value_2,optional,snappy"`
	Variation3 *float64 `parquet:"variation_value_3,optional,snappy"`
	Variation4 *float64 `parquet:"variation_value_4,optional,snappy"`
	Variation5 *float64 `parquet:"variation_value_5,optional,snappy"`
}

// Result is one displayed measure of an analysis run, as produced by the analyze command.
type Result struct {
	ProjectKey    string   `parquet:"project_key,snappy,dict"`
	SnapshotID    int64    `parquet:"snapshot_id,snappy"`
	ComponentKey  string   `parquet:"component_key,snappy,dict"`
	ComponentType string   `parquet:"component_type,snappy,dict"`
	MetricKey     string   `parquet:"metric_key,snappy,dict"`
	Value         string   `parquet:"value,snappy"`
	Numeric       *float64 `parquet:"numeric,optional,snappy"`
	AlertStatus   string   `parquet:"alert_status,snappy,dict"`

	Variation1 *float64 `parquet:"variation_value_1,optional,snappy"`
	Variation2 *float64 `parquet:"variation_value_2,optional,snappy"`
	Variation3 *float64 `parquet:"variation_value_3,optional,snappy"`
	Variation4 *float64 `parquet:"variation_value_4,optional,snappy"`
	Variation5 *float64 `parquet:"variation_value_5,optional,snappy"`
}

// WriteResultsParquet writes a slice of Result structs to a Parquet file.
func WriteResultsParquet(data []Result, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSnapshotsParquet writes a slice of Snapshot structs to a Parquet file.
func WriteSnapshotsParquet(data []Snapshot, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteMeasuresParquet writes a slice of Measure structs to a Parquet file.
func WriteMeasuresParquet(data []Measure, outputPath string) error {
	return writeParquet(data, outputPath)
}

func writeParquet[T any](data []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the struct tags
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to flush parquet file: %w", err)
	}
	return nil
}

// ConvertSnapshotRecords converts schema.SnapshotRecord to Snapshot for Parquet export.
func ConvertSnapshotRecords(records []schema.SnapshotRecord) []Snapshot {
	result := make([]Snapshot, len(records))
	for i, r := range records {
		result[i] = Snapshot{
			SnapshotID:      r.SnapshotID,
			ProjectUUID:     r.ProjectUUID,
			ProjectKey:      r.ProjectKey,
			Version:         r.Version,
			AnalysisDate:    r.AnalysisDate,
			StartTime:       r.StartTime,
			EndTime:         r.EndTime,
			RunDurationMs:   r.RunDurationMs,
			TotalComponents: r.TotalComponents,
			Status:          r.Status,
			IsLast:          r.IsLast,
			Fingerprint:     r.Fingerprint,
			ConfigParams:    r.ConfigParams,
		}
	}
	return result
}

// ConvertMeasureRecords converts schema.MeasureRecord to Measure for Parquet export.
func ConvertMeasureRecords(records []schema.MeasureRecord) []Measure {
	result := make([]Measure, len(records))
	for i, r := range records {
		result[i] = Measure{
			SnapshotID:       r.SnapshotID,
			ComponentUUID:    r.ComponentUUID,
			MetricKey:        r.MetricKey,
			RuleID:           r.RuleID,
			CharacteristicID: r.CharacteristicID,
			DeveloperID:      r.DeveloperID,
			Value:            r.Value,
			TextValue:        r.TextValue,
			Data:             r.Data,
			AlertStatus:      r.AlertStatus,
			AlertText:        r.AlertText,
			Variation1:       r.Variations[0],
			Variation2:       r.Variations[1],
			Variation3:       r.Variations[2],
			Variation4:       r.Variations[3],
			Variation5:       r.Variations[4],
		}
	}
	return result
}

// ConvertAnalysisResults flattens analysis results into one Result per displayed measure.
func ConvertAnalysisResults(results []*schema.AnalysisResult) []Result {
	var rows []Result
	for _, res := range results {
		for _, c := range res.Components {
			for _, m := range c.Measures {
				rows = append(rows, Result{
					ProjectKey:    res.ProjectKey,
					SnapshotID:    res.SnapshotID,
					ComponentKey:  c.Key,
					ComponentType: string(c.Type),
					MetricKey:     m.Metric,
					Value:         m.Value,
					Numeric:       m.Numeric,
					AlertStatus:   string(m.AlertStatus),
					Variation1:    m.Variations[0],
					Variation2:    m.Variations[1],
					Variation3:    m.Variations[2],
					Variation4:    m.Variations[3],
					Variation5:    m.Variations[4],
				})
			}
		}
	}
	return rows
}
