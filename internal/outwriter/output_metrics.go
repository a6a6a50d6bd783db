package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintMetricsDefinitions displays the metric catalog.
// This is a static display that does not require any report.
func PrintMetricsDefinitions(renderModel *schema.MetricsRenderModel, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONMetrics(w, renderModel)
		}, "Wrote JSON")
	case schema.TOONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTOON(w, renderModel)
		}, "Wrote TOON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVMetrics(w, renderModel)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printMetricsText(w, renderModel)
		}, "Wrote text")
	}
}

// directionLabel describes which way a metric improves.
func directionLabel(direction int) string {
	switch {
	case direction < 0:
		return "lower is better"
	case direction > 0:
		return "higher is better"
	default:
		return ""
	}
}

// bestValueLabel renders the best value of a metric, marking optimized ones with a star.
func bestValueLabel(m schema.Metric) string {
	if m.BestValue == nil {
		return ""
	}
	s := strconv.FormatFloat(*m.BestValue, 'f', -1, 64)
	if m.OptimizedBestValue {
		s += "*"
	}
	return s
}

// printMetricsText displays metrics in human-readable text format.
func printMetricsText(w io.Writer, renderModel *schema.MetricsRenderModel) error {
	if _, err := fmt.Fprintf(w, "📏 %s\n\n%s\n\n", renderModel.Title, renderModel.Description); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Key", "Name", "Domain", "Type", "Direction", "Best"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	var data [][]string
	for _, m := range renderModel.Metrics {
		if m.Hidden {
			continue
		}
		name := m.Name
		if m.DeltaOnly {
			name += " (per period)"
		}
		data = append(data, []string{m.Key, name, m.Domain, string(m.Type), directionLabel(m.Direction), bestValueLabel(m)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "* best value measures on files are not archived\n")
	return err
}
