package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/gauge/core/agg"
	"github.com/huangsam/gauge/core/dsm"
	"github.com/huangsam/gauge/core/measure"
	"github.com/huangsam/gauge/core/tree"
	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/internal/report"
	"github.com/huangsam/gauge/schema"
)

// minutesPerDay is the length of a working day in work duration values.
const minutesPerDay = 8 * 60

// buildResult renders the measures of a finished run for the output writers.
// Hidden metrics and scoped measures are not displayed.
func buildResult(cfg *contract.Config, run *Run, doc *report.Document) *schema.AnalysisResult {
	res := &schema.AnalysisResult{
		ProjectKey:  run.Tree.Root().Key,
		Fingerprint: doc.Fingerprint(),
		Gate:        run.Result.Gate,
	}
	_ = run.Tree.Walk(tree.PreOrder, func(c *tree.Component) error {
		cm := schema.ComponentMeasures{Key: c.Key, Type: c.Type, Path: c.Path, Depth: c.Depth()}
		for _, e := range run.Store.ByComponent(c.Ref) {
			def, ok := run.Catalog.Get(e.Metric)
			if !ok || def.Hidden || !e.Measure.Scope.IsZero() {
				continue
			}
			cm.Measures = append(cm.Measures, measureView(def, e.Measure, cfg.Precision))
		}
		res.Components = append(res.Components, cm)
		return nil
	})
	for _, r := range run.Result.DSM {
		res.DSM = append(res.DSM, dsmSummary(r))
	}
	return res
}

func measureView(def schema.Metric, m measure.Measure, precision int) schema.MeasureView {
	view := schema.MeasureView{
		Metric:      def.Key,
		Value:       FormatValue(def, m.Value, precision),
		AlertStatus: m.AlertStatus,
		AlertText:   m.Text,
		Variations:  m.Variations.Pointers(),
	}
	if n, ok := m.Value.Numeric(); ok {
		view.Numeric = &n
	}
	return view
}

func dsmSummary(r *dsm.Result) schema.DsmSummary {
	s := schema.DsmSummary{
		Key:     r.Node.Key,
		Rollups: r.Rollups,
		Cycles:  r.Cycles,
		Tangled: r.Tangled,
		Skipped: r.Skipped,
	}
	for _, e := range r.Entries {
		s.Entries = append(s.Entries, e.Key)
	}
	if !r.Skipped {
		s.DataSize = len(dsm.Encode(r.Data))
	}
	return s
}

// FormatValue renders a measure value the way its metric type reads best.
func FormatValue(def schema.Metric, v measure.Value, precision int) string {
	n, numeric := v.Numeric()
	if !numeric || v.Kind() == measure.BoolKind {
		return v.String()
	}
	switch def.Type {
	case schema.RatingMetric:
		return agg.RatingLetter(int(n))
	case schema.PercentMetric, schema.FloatMetric:
		return strconv.FormatFloat(n, 'f', precision, 64)
	case schema.WorkDurMetric:
		return FormatWorkDuration(int64(n))
	default:
		return v.String()
	}
}

// FormatWorkDuration renders minutes as days, hours and minutes of 8 hour working days.
func FormatWorkDuration(minutes int64) string {
	if minutes == 0 {
		return "0min"
	}
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	days, rest := minutes/minutesPerDay, minutes%minutesPerDay
	hours, mins := rest/60, rest%60
	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if mins > 0 {
		parts = append(parts, fmt.Sprintf("%dmin", mins))
	}
	return sign + strings.Join(parts, " ")
}
