package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/gauge/schema"
)

// writeJSONMetrics writes the metrics definitions in JSON format.
func writeJSONMetrics(w io.Writer, renderModel *schema.MetricsRenderModel) error {
	return writeJSON(w, renderModel)
}

// writeCSVMetrics writes the metrics definitions in CSV format.
func writeCSVMetrics(w io.Writer, renderModel *schema.MetricsRenderModel) error {
	header := []string{"id", "key", "name", "domain", "type", "direction", "best_value", "optimized_best_value", "delta_only", "hidden"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, m := range renderModel.Metrics {
			record := []string{
				strconv.Itoa(m.ID),
				m.Key,
				m.Name,
				m.Domain,
				string(m.Type),
				strconv.Itoa(m.Direction),
				bestValueLabel(m),
				strconv.FormatBool(m.OptimizedBestValue),
				strconv.FormatBool(m.DeltaOnly),
				strconv.FormatBool(m.Hidden),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}
