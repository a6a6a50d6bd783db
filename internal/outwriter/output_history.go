package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintHistoryResult outputs the archived values of one metric, dispatching based on the output format configured.
func PrintHistoryResult(result *schema.HistoryResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON history")
	case schema.TOONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTOON(w, result)
		}, "Wrote TOON history")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVHistory(w, result, fmtFloat)
		}, "Wrote CSV history")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, result, fmtFloat)
		}, "Wrote text history")
	}
}

// historyValue renders the numeric value of a point, falling back to its text.
func historyValue(p schema.HistoryPoint, fmtFloat func(float64) string) string {
	if p.Value != nil {
		return fmtFloat(*p.Value)
	}
	if p.TextValue != nil {
		return *p.TextValue
	}
	return ""
}

func writeHistoryTable(w io.Writer, result *schema.HistoryResult, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "📈 %s on %s\n", result.Metric, result.ComponentKey); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Snapshot", "Analysis Date", "Version", "Value", "Change"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	var prev *float64
	for _, p := range result.Points {
		change := ""
		if p.Value != nil && prev != nil {
			d := *p.Value - *prev
			change = formatVariation(&d, fmtFloat)
		}
		if p.Value != nil {
			prev = p.Value
		}
		data = append(data, []string{
			strconv.FormatInt(p.SnapshotID, 10),
			p.AnalysisDate.Format(contract.DateTimeFormat),
			p.Version,
			historyValue(p, fmtFloat),
			change,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d archived value(s)\n", len(result.Points))
	return err
}

func writeCSVHistory(w io.Writer, result *schema.HistoryResult, fmtFloat func(float64) string) error {
	header := []string{"component", "metric", "snapshot_id", "analysis_date", "version", "value"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range result.Points {
			row := []string{
				result.ComponentKey,
				result.Metric,
				strconv.FormatInt(p.SnapshotID, 10),
				p.AnalysisDate.Format(contract.DateTimeFormat),
				p.Version,
				historyValue(p, fmtFloat),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
