// Package core has core logic for running analyses over measure reports.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/internal/outwriter"
	"github.com/huangsam/gauge/internal/profile"
	"github.com/huangsam/gauge/internal/report"
	"github.com/huangsam/gauge/schema"
	"github.com/sourcegraph/conc/pool"
)

// ErrGateFailed is returned by the check command when a quality gate does not pass.
var ErrGateFailed = errors.New("quality gate failed")

// resultWriter renders every command result.
var resultWriter = outwriter.NewOutWriter()

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteAnalyze analyzes every report and prints the results.
// It serves as the main entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	results, err := GetAnalysisResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return resultWriter.WriteAnalysis(results, cfg, time.Since(start))
}

// ExecuteCheck analyzes every report and prints the quality gate verdicts.
// It returns ErrGateFailed when a gate is ERROR, or WARN with cfg.FailOnWarn.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	ctx = WithSuppressHeader(ctx)
	results, err := GetAnalysisResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	var failed []string
	for _, res := range results {
		if err := resultWriter.WriteGate(res, cfg); err != nil {
			return err
		}
		if gateFails(res.Gate, cfg.FailOnWarn) {
			failed = append(failed, fmt.Sprintf("%s is %s", res.ProjectKey, res.Gate.Level))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrGateFailed, strings.Join(failed, ", "))
	}
	return nil
}

func gateFails(gate *schema.GateResult, failOnWarn bool) bool {
	if gate == nil {
		return false
	}
	switch gate.Level {
	case schema.ErrorLevel:
		return true
	case schema.WarnLevel:
		return failOnWarn
	default:
		return false
	}
}

// ExecuteHistory prints the archived values of one metric on one component.
func ExecuteHistory(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	result, err := LoadHistory(ctx, cfg, mgr, cfg.HistoryProject, cfg.HistoryComponent, cfg.HistoryMetric)
	if err != nil {
		return err
	}
	return resultWriter.WriteHistory(result, cfg)
}

// LoadHistory reads the archived values of a metric. An empty component key means the project itself.
func LoadHistory(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, projectKey, componentKey, metricKey string) (*schema.HistoryResult, error) {
	store := mgr.GetAnalysisStore()
	if store == nil {
		return nil, errors.New("history requires an analysis backend")
	}
	if projectKey == "" || metricKey == "" {
		return nil, errors.New("project and metric are required")
	}
	prof, err := profile.LoadOrDefault(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}
	catalog, err := prof.Catalog()
	if err != nil {
		return nil, err
	}
	if _, err := catalog.MustGet(metricKey); err != nil {
		return nil, err
	}
	if componentKey == "" {
		componentKey = projectKey
	}

	uuids, err := store.ComponentUUIDs(ctx, projectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load component uuids: %w", err)
	}
	uuid, ok := uuids[componentKey]
	if !ok {
		return nil, fmt.Errorf("component %q not found in project %q", componentKey, projectKey)
	}
	points, err := store.MeasureHistory(ctx, uuid, metricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return &schema.HistoryResult{ComponentKey: componentKey, Metric: metricKey, Points: points}, nil
}

// ExecuteMetrics prints the metric catalog, including the metrics declared by the profile.
// It does not need any report nor analysis store.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	model, err := MetricsModel(cfg)
	if err != nil {
		return err
	}
	return resultWriter.WriteMetrics(model, cfg)
}

// MetricsModel builds the catalog listing shown by the metrics command.
func MetricsModel(cfg *contract.Config) (*schema.MetricsRenderModel, error) {
	prof, err := profile.LoadOrDefault(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}
	catalog, err := prof.Catalog()
	if err != nil {
		return nil, err
	}
	return &schema.MetricsRenderModel{
		Title:       "Metric Catalog",
		Description: "Metrics computed or accepted by an analysis. Metrics marked per period only carry variations.",
		Metrics:     catalog.All(),
	}, nil
}

// GetAnalysisResults decodes the configured reports and analyzes them with a bounded worker pool.
// Reports of the same project run one after the other, in the order given.
func GetAnalysisResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]*schema.AnalysisResult, error) {
	if len(cfg.ReportPaths) == 0 {
		return nil, errors.New("no report given")
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogAnalysisHeader(os.Stderr, cfg)
	}

	prof, err := profile.LoadOrDefault(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}
	docs := make([]*report.Document, len(cfg.ReportPaths))
	for i, path := range cfg.ReportPaths {
		doc, err := decodeReport(path)
		if err != nil {
			return nil, err
		}
		docs[i] = doc
	}

	// Group by project so two snapshots of one project never persist concurrently
	var order []string
	groups := make(map[string][]int)
	for i, doc := range docs {
		if _, ok := groups[doc.ProjectKey]; !ok {
			order = append(order, doc.ProjectKey)
		}
		groups[doc.ProjectKey] = append(groups[doc.ProjectKey], i)
	}

	results := make([]*schema.AnalysisResult, len(docs))
	p := pool.New().WithMaxGoroutines(max(cfg.Workers, 1)).WithContext(ctx).WithCancelOnError()
	for _, key := range order {
		indexes := groups[key]
		p.Go(func(ctx context.Context) error {
			for _, i := range indexes {
				res, err := AnalyzeReport(ctx, cfg, mgr, prof, docs[i])
				if err != nil {
					return fmt.Errorf("%s: %w", cfg.ReportPaths[i], err)
				}
				results[i] = res
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func decodeReport(path string) (*report.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer func() { _ = f.Close() }()
	doc, err := report.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
