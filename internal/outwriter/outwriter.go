// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalysis prints analysis results using the configured output format.
func (ow *OutWriter) WriteAnalysis(results []*schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return PrintAnalysisResults(results, cfg, duration)
}

// WriteGate prints a quality gate verdict using the configured output format.
func (ow *OutWriter) WriteGate(result *schema.AnalysisResult, cfg *contract.Config) error {
	return PrintGateResult(result, cfg)
}

// WriteHistory prints the archived values of one measure using the configured output format.
func (ow *OutWriter) WriteHistory(result *schema.HistoryResult, cfg *contract.Config) error {
	return PrintHistoryResult(result, cfg)
}

// WriteMetrics prints the metric catalog using the configured output format.
func (ow *OutWriter) WriteMetrics(renderModel *schema.MetricsRenderModel, cfg *contract.Config) error {
	return PrintMetricsDefinitions(renderModel, cfg)
}

// LogAnalysisHeader prints a concise, 2-line header before the reports are analyzed.
func LogAnalysisHeader(w io.Writer, cfg *contract.Config) {
	names := make([]string, 0, len(cfg.ReportPaths))
	for _, p := range cfg.ReportPaths {
		names = append(names, filepath.Base(p))
	}

	// Line 1: The reports and the backend
	backend := string(cfg.AnalysisBackend)
	if !cfg.Persist {
		backend += ", dry run"
	}
	_, _ = fmt.Fprintf(w, "🔎 Reports: %s (Backend: %s)\n", strings.Join(names, ", "), backend)

	// Line 2: The periods being compared
	if len(cfg.Periods) == 0 {
		_, _ = fmt.Fprintln(w, "📅 Periods: none")
		return
	}
	labels := make([]string, 0, len(cfg.Periods))
	for _, s := range cfg.Periods {
		label := fmt.Sprintf("%d=%s", s.Index, s.Mode)
		if s.Parameter != "" {
			label += ":" + s.Parameter
		}
		labels = append(labels, label)
	}
	_, _ = fmt.Fprintf(w, "📅 Periods: %s\n", strings.Join(labels, " "))
}
