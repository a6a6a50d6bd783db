package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/gauge/schema"
)

// analysisCSVHeader is the column layout of the analysis CSV output.
var analysisCSVHeader = []string{
	"project",
	"snapshot_id",
	"component",
	"type",
	"depth",
	"metric",
	"value",
	"variation_1",
	"variation_2",
	"variation_3",
	"variation_4",
	"variation_5",
	"alert_status",
	"alert_text",
}

// writeCSVResultsForAnalysis writes one row per displayed measure of every result.
func writeCSVResultsForAnalysis(w io.Writer, results []*schema.AnalysisResult, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, analysisCSVHeader, func(cw *csv.Writer) error {
		for _, res := range results {
			for _, c := range res.Components {
				for _, m := range c.Measures {
					row := []string{
						res.ProjectKey,
						strconv.FormatInt(res.SnapshotID, 10),
						c.Key,
						string(c.Type),
						strconv.Itoa(c.Depth),
						m.Metric,
						m.Value,
					}
					for _, v := range m.Variations {
						row = append(row, formatVariation(v, fmtFloat))
					}
					row = append(row, string(m.AlertStatus), m.AlertText)
					if err := cw.Write(row); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}
