package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/gauge/core/measure"
	"github.com/huangsam/gauge/core/metric"
	"github.com/huangsam/gauge/core/period"
	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/internal/profile"
	"github.com/huangsam/gauge/internal/report"
	"github.com/huangsam/gauge/schema"
)

// AnalyzeReport runs one analysis over a decoded report. When the store manager has an
// analysis store, periods are resolved against it, variations are computed from it and, if
// cfg.Persist is set, the whole analysis is persisted in one transaction once every step has
// succeeded. Nothing is written when a step fails.
func AnalyzeReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, prof *profile.Profile, doc *report.Document) (*schema.AnalysisResult, error) {
	start := time.Now()
	store := mgr.GetAnalysisStore()
	if prof == nil {
		prof = profile.Default()
	}

	// --- 0. Profile ---
	catalog, err := prof.Catalog()
	if err != nil {
		return nil, err
	}
	gate, err := prof.QualityGate(catalog)
	if err != nil {
		return nil, err
	}

	// --- 1. Component tree with stable uuids ---
	var known map[string]string
	if store != nil {
		known, err = store.ComponentUUIDs(ctx, doc.ProjectKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load component uuids: %w", err)
		}
	}
	t, created, err := doc.BuildTree(known)
	if err != nil {
		return nil, err
	}
	root := t.Root()

	analysisDate := analysisDateOf(cfg, doc)
	version := cfg.ProjectVersion
	if version == "" {
		version = doc.Version
	}

	// --- 2. Periods ---
	periods := &period.Set{}
	if store != nil && len(cfg.Periods) > 0 {
		periods, err = period.Resolve(ctx, store, root.UUID, cfg.Periods, analysisDate, version)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve periods: %w", err)
		}
	}

	// --- 3. Pipeline ---
	ms := measure.NewStore()
	run := &Run{
		Tree:         t,
		Store:        ms,
		Catalog:      catalog,
		Periods:      periods,
		Gate:         gate,
		Rating:       prof.RatingModel(),
		DSMThreshold: prof.DSMThreshold(cfg.DSMThreshold),
		Dependencies: doc.Edges(),
		LineChanges:  doc.FileLines(),
		AnalysisDate: analysisDate,
		Feeder:       doc,
		Logger:       contract.NewLogger(cfg.Verbose).With("project", doc.ProjectKey),
	}
	if store != nil {
		ms.WithBase(baseLoader{tree: t, catalog: catalog, store: store})
		run.Archive = store
	}
	if err := Execute(ctx, run, DefaultSteps()...); err != nil {
		return nil, err
	}

	result := buildResult(cfg, run, doc)
	result.Version = version
	result.AnalysisDate = analysisDate
	result.Periods = periods.All()

	if run.Result.Gate != nil && store != nil {
		prev, ok, err := ms.Previous(ctx, root.Ref, metric.AlertStatus)
		if err != nil {
			return nil, fmt.Errorf("failed to load previous gate status: %w", err)
		}
		if ok {
			run.Result.Gate.Previous = prev.Value.Level()
		}
	}

	// --- 4. Persistence, all or nothing ---
	if store != nil && cfg.Persist {
		end := time.Now()
		duration := int32(end.Sub(start).Milliseconds())
		snapshot := schema.SnapshotRecord{
			ProjectUUID:     root.UUID,
			ProjectKey:      root.Key,
			Version:         version,
			AnalysisDate:    analysisDate,
			StartTime:       start,
			EndTime:         &end,
			RunDurationMs:   &duration,
			TotalComponents: int32(t.Len()),
			Fingerprint:     result.Fingerprint,
			ConfigParams:    configParams(cfg, periods),
		}
		id, err := store.Persist(ctx, snapshot, created, toRecords(t, ms, catalog))
		if err != nil {
			return nil, fmt.Errorf("failed to persist analysis: %w", err)
		}
		result.SnapshotID = id
	}

	result.Duration = time.Since(start)
	return result, nil
}

func analysisDateOf(cfg *contract.Config, doc *report.Document) time.Time {
	switch {
	case !cfg.AnalysisDate.IsZero():
		return cfg.AnalysisDate.UTC()
	case doc.AnalysisDate != nil:
		return doc.AnalysisDate.UTC()
	default:
		return time.Now().UTC()
	}
}

// configParams records the settings that shaped the analysis on its snapshot row.
func configParams(cfg *contract.Config, periods *period.Set) *string {
	params := map[string]any{
		"profile":       cfg.ProfilePath,
		"dsm_threshold": cfg.DSMThreshold,
		"periods":       periods.All(),
	}
	data, err := json.Marshal(params)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}
