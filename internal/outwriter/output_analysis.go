package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/internal/parquet"
	"github.com/huangsam/gauge/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintAnalysisResults outputs analysis results, dispatching based on the output format configured.
func PrintAnalysisResults(results []*schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}, "Wrote JSON")
	case schema.TOONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTOON(w, results)
		}, "Wrote TOON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForAnalysis(w, results, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteResultsParquet(parquet.ConvertAnalysisResults(results), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			for _, res := range results {
				if err := writeAnalysisText(w, res, cfg, fmtFloat); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintf(w, "Analysis of %d report(s) completed in %v with %d workers. Analysis backend: %s\n",
				len(results), duration, cfg.Workers, cfg.AnalysisBackend)
			return err
		}, "Wrote text")
	}
}

// writeAnalysisText writes one analysis as a header, a measure table, an optional DSM table
// and the quality gate verdict.
func writeAnalysisText(w io.Writer, res *schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	header := fmt.Sprintf("📊 %s", res.ProjectKey)
	if res.Version != "" {
		header += "  version " + res.Version
	}
	header += "  analysis " + res.AnalysisDate.Format(contract.DateTimeFormat)
	if res.SnapshotID > 0 {
		header += fmt.Sprintf("  snapshot #%d", res.SnapshotID)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, p := range res.Periods {
		if _, err := fmt.Fprintf(w, "   %s since %s (snapshot #%d)\n", periodLabel(p), p.SnapshotDate.Format(contract.DateTimeFormat), p.SnapshotID); err != nil {
			return err
		}
	}

	if err := writeMeasureTable(w, res, cfg, fmtFloat); err != nil {
		return err
	}
	if len(res.DSM) > 0 {
		if err := writeDSMTable(w, res.DSM); err != nil {
			return err
		}
	}
	if res.Gate != nil {
		if err := writeGateLine(w, res.Gate, cfg.UseColors); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeMeasureTable(w io.Writer, res *schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	indexes := activePeriodIndexes(res.Periods)
	headers := []string{"Component", "Metric", "Value"}
	for _, p := range res.Periods {
		headers = append(headers, periodLabel(p))
	}
	headers = append(headers, "Alert")
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	maxWidth := GetMaxTablePathWidth(cfg, len(indexes))
	var data [][]string
	for _, c := range res.Components {
		for i, m := range c.Measures {
			name := ""
			if i == 0 {
				name = indentKey(c.Key, c.Depth, maxWidth)
			}
			row := []string{name, m.Metric, m.Value}
			for _, idx := range indexes {
				row = append(row, formatVariation(m.Variations[idx-1], fmtFloat))
			}
			row = append(row, alertCell(m.AlertStatus, cfg.UseColors))
			data = append(data, row)
		}
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeDSMTable(w io.Writer, summaries []schema.DsmSummary) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"DSM Node", "Entries", "Dependencies", "Cycles", "Tangled", "Bytes"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, s := range summaries {
		if s.Skipped {
			data = append(data, []string{s.Key, "skipped", "", "", "", ""})
			continue
		}
		data = append(data, []string{
			s.Key,
			strconv.Itoa(len(s.Entries)),
			strconv.Itoa(len(s.Rollups)),
			strconv.Itoa(s.Cycles),
			strconv.Itoa(s.Tangled),
			strconv.Itoa(s.DataSize),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeGateLine(w io.Writer, gate *schema.GateResult, useColors bool) error {
	line := fmt.Sprintf("Quality gate %q: %s", gate.Name, alertCell(gate.Level, useColors))
	if gate.Previous != "" && gate.Previous != gate.Level {
		line += fmt.Sprintf(" (was %s)", alertCell(gate.Previous, useColors))
	}
	if gate.Text != "" {
		line += " " + gate.Text
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
