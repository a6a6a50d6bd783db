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

// gateReport is the serialized form of a quality gate check.
type gateReport struct {
	ProjectKey string             `json:"project_key"`
	SnapshotID int64              `json:"snapshot_id,omitempty"`
	Gate       *schema.GateResult `json:"quality_gate"`
}

// PrintGateResult outputs the quality gate verdict of one analysis.
// A result without gate is reported as such rather than as a failure.
func PrintGateResult(res *schema.AnalysisResult, cfg *contract.Config) error {
	report := gateReport{ProjectKey: res.ProjectKey, SnapshotID: res.SnapshotID, Gate: res.Gate}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.TOONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTOON(w, report)
		}, "Wrote TOON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVGate(w, report)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeGateText(w, report, cfg.UseColors)
		}, "Wrote text")
	}
}

func writeGateText(w io.Writer, report gateReport, useColors bool) error {
	if report.Gate == nil {
		_, err := fmt.Fprintf(w, "🚦 %s: no quality gate configured\n", report.ProjectKey)
		return err
	}
	if _, err := fmt.Fprintf(w, "🚦 %s\n", report.ProjectKey); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Op", "Period", "Warning", "Error", "Actual", "Level"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, c := range report.Gate.Conditions {
		period := ""
		if c.Period > 0 {
			period = strconv.Itoa(c.Period)
		}
		data = append(data, []string{
			c.Metric,
			c.Op.Symbol(),
			period,
			c.Warning,
			c.Error,
			c.Actual,
			alertCell(c.Level, useColors),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return writeGateLine(w, report.Gate, useColors)
}

func writeCSVGate(w io.Writer, report gateReport) error {
	header := []string{"project", "gate", "metric", "op", "period", "warning", "error", "actual", "level"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		if report.Gate == nil {
			return nil
		}
		for _, c := range report.Gate.Conditions {
			row := []string{
				report.ProjectKey,
				report.Gate.Name,
				c.Metric,
				string(c.Op),
				strconv.Itoa(c.Period),
				c.Warning,
				c.Error,
				c.Actual,
				string(c.Level),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
