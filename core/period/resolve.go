package period

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gauge/schema"
)

// DateLayout is the layout of date period parameters.
const DateLayout = "2006-01-02"

// SnapshotFinder lists the snapshots recorded for a project.
type SnapshotFinder interface {
	Snapshots(ctx context.Context, projectUUID string) ([]schema.SnapshotRecord, error)
}

// ParseSetting parses a period setting of the form index:mode[:parameter].
func ParseSetting(raw string) (schema.PeriodSetting, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 3)
	if len(parts) < 2 {
		return schema.PeriodSetting{}, schema.Preconditionf("", "", raw, "period setting must look like index:mode[:parameter]")
	}
	index, err := strconv.Atoi(parts[0])
	if err != nil || index < 1 || index > schema.MaxPeriods {
		return schema.PeriodSetting{}, schema.Preconditionf("", "", raw, "period index must be between 1 and %d", schema.MaxPeriods)
	}
	setting := schema.PeriodSetting{Index: index, Mode: schema.PeriodMode(strings.ToLower(parts[1]))}
	if len(parts) == 3 {
		setting.Parameter = parts[2]
	}
	if err := ValidateSetting(setting); err != nil {
		return schema.PeriodSetting{}, err
	}
	return setting, nil
}

// ValidateSetting checks that the mode is known and that its parameter is well formed.
func ValidateSetting(s schema.PeriodSetting) error {
	switch s.Mode {
	case schema.PreviousAnalysisMode, schema.PreviousVersionMode:
		if s.Parameter != "" {
			return schema.Preconditionf("", "", s.Parameter, "period mode %s takes no parameter", s.Mode)
		}
	case schema.DaysMode:
		days, err := strconv.Atoi(s.Parameter)
		if err != nil || days <= 0 {
			return schema.Preconditionf("", "", s.Parameter, "period mode days needs a positive number of days")
		}
	case schema.DateMode:
		if _, err := time.Parse(DateLayout, s.Parameter); err != nil {
			return schema.Preconditionf("", "", s.Parameter, "period mode date needs a YYYY-MM-DD date")
		}
	case schema.VersionMode:
		if s.Parameter == "" {
			return schema.Preconditionf("", "", s.Parameter, "period mode version needs a version")
		}
	default:
		return schema.Preconditionf("", "", s.Mode, "unknown period mode")
	}
	return nil
}

// Resolve binds every setting to a processed snapshot taken before the analysis date.
// Settings that match no snapshot are skipped.
func Resolve(ctx context.Context, finder SnapshotFinder, projectUUID string, settings []schema.PeriodSetting, analysisDate time.Time, currentVersion string) (*Set, error) {
	set := &Set{}
	if len(settings) == 0 {
		return set, nil
	}
	for _, s := range settings {
		if err := ValidateSetting(s); err != nil {
			return nil, err
		}
	}

	all, err := finder.Snapshots(ctx, projectUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	var past []schema.SnapshotRecord
	for _, snap := range all {
		if snap.Status == schema.SnapshotProcessed && snap.AnalysisDate.Before(analysisDate) {
			past = append(past, snap)
		}
	}
	slices.SortStableFunc(past, func(a, b schema.SnapshotRecord) int {
		return a.AnalysisDate.Compare(b.AnalysisDate)
	})

	for _, s := range settings {
		snap, ok := pick(past, s, analysisDate, currentVersion)
		if !ok {
			continue
		}
		err := set.Add(schema.Period{
			Index:         s.Index,
			Mode:          s.Mode,
			ModeParameter: s.Parameter,
			SnapshotDate:  snap.AnalysisDate,
			SnapshotID:    snap.SnapshotID,
		})
		if err != nil {
			return nil, err
		}
	}
	return set, nil
}

// pick selects the snapshot of one setting among past snapshots sorted oldest first.
func pick(past []schema.SnapshotRecord, s schema.PeriodSetting, analysisDate time.Time, currentVersion string) (schema.SnapshotRecord, bool) {
	switch s.Mode {
	case schema.PreviousAnalysisMode:
		if len(past) > 0 {
			return past[len(past)-1], true
		}
	case schema.DaysMode:
		days, _ := strconv.Atoi(s.Parameter)
		return firstOnOrAfter(past, analysisDate.AddDate(0, 0, -days))
	case schema.DateMode:
		date, _ := time.Parse(DateLayout, s.Parameter)
		return firstOnOrAfter(past, date)
	case schema.VersionMode:
		for i := len(past) - 1; i >= 0; i-- {
			if past[i].Version == s.Parameter {
				return past[i], true
			}
		}
	case schema.PreviousVersionMode:
		for i := len(past) - 1; i >= 0; i-- {
			if past[i].Version != currentVersion {
				return past[i], true
			}
		}
	}
	return schema.SnapshotRecord{}, false
}

func firstOnOrAfter(past []schema.SnapshotRecord, threshold time.Time) (schema.SnapshotRecord, bool) {
	for _, snap := range past {
		if !snap.AnalysisDate.Before(threshold) {
			return snap, true
		}
	}
	return schema.SnapshotRecord{}, false
}
