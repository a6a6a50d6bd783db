// Package qgate evaluates a quality gate against the measures of the tree root.
package qgate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/gauge/core/measure"
	"github.com/huangsam/gauge/core/metric"
	"github.com/huangsam/gauge/core/tree"
	"github.com/huangsam/gauge/schema"
)

// ratingLetters maps the letter form of a rating threshold to its numeric value.
var ratingLetters = map[string]float64{"A": 1, "B": 2, "C": 3, "D": 4, "E": 5}

type threshold struct {
	set  bool
	raw  string
	num  float64
	text string
}

type condition struct {
	schema.Condition
	metric         schema.Metric
	errorThreshold threshold
	warnThreshold  threshold
}

// Evaluate checks every condition of gate against the root measures, marks the raw measures
// with their alert level and text, then stores the alert status and the gate details on the root.
// It returns nil when there is no gate or when the root cannot be evaluated.
func Evaluate(t *tree.Tree, store *measure.Store, catalog *metric.Catalog, gate *schema.QualityGate) (*schema.GateResult, error) {
	if gate == nil {
		return nil, nil
	}
	root := t.Root()
	if !root.Type.IsRoot() {
		return nil, nil
	}

	// 1. Compile every condition before touching the store
	conditions := make([]condition, 0, len(gate.Conditions))
	for _, c := range gate.Conditions {
		compiled, err := compile(root.Key, catalog, c)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, compiled)
	}

	// 2. Evaluate against the current root measures
	result := &schema.GateResult{Name: gate.Name, Level: schema.OKLevel, Conditions: []schema.ConditionResult{}}
	levels := map[string]schema.Level{}
	texts := map[string][]string{}
	var alerts []string
	for _, c := range conditions {
		cr := c.evaluate(store, root.Ref)
		result.Conditions = append(result.Conditions, cr)
		result.Level = schema.WorstLevel(result.Level, cr.Level)
		levels[c.Metric] = schema.WorstLevel(levels[c.Metric], cr.Level)
		if cr.Level != schema.OKLevel {
			texts[c.Metric] = append(texts[c.Metric], cr.Text)
			alerts = append(alerts, cr.Text)
		}
	}
	result.Text = strings.Join(alerts, ", ")

	// 3. Rewrite the raw measures that were evaluated and hold data
	for key, level := range levels {
		m, ok := store.Raw(root.Ref, key)
		if !ok || m.IsAbsent() {
			continue
		}
		m.AlertStatus = level
		m.Text = strings.Join(texts[key], ", ")
		store.Put(root.Ref, key, m)
	}

	// 4. Gate measures on the root
	details, err := json.Marshal(schema.GateDetails{Level: result.Level, Conditions: result.Conditions})
	if err != nil {
		return nil, fmt.Errorf("failed to encode quality gate details: %w", err)
	}
	store.Put(root.Ref, metric.AlertStatus, measure.Measure{Value: measure.LevelValue(result.Level), Text: result.Text})
	store.Put(root.Ref, metric.QualityGateDetails, measure.New(measure.Bytes(details)))
	return result, nil
}

func compile(rootKey string, catalog *metric.Catalog, c schema.Condition) (condition, error) {
	def, err := catalog.MustGet(c.Metric)
	if err != nil {
		return condition{}, err
	}
	if _, ok := schema.ValidOperators[c.Operator]; !ok {
		return condition{}, schema.Preconditionf(rootKey, c.Metric, c.Operator, "unknown condition operator")
	}
	if c.Period < 0 || c.Period > schema.MaxPeriods {
		return condition{}, schema.Preconditionf(rootKey, c.Metric, c.Period, "condition period must be between 1 and %d", schema.MaxPeriods)
	}
	switch def.Type {
	case schema.DataMetric:
		return condition{}, schema.Preconditionf(rootKey, c.Metric, def.Type, "metric type cannot be used in a condition")
	case schema.StringMetric, schema.LevelMetric:
		if c.Operator != schema.EqualsOp && c.Operator != schema.NotEqualsOp {
			return condition{}, schema.Preconditionf(rootKey, c.Metric, c.Operator, "text metrics only support EQ and NE")
		}
		if c.Period > 0 {
			return condition{}, schema.Preconditionf(rootKey, c.Metric, c.Period, "text metrics have no variations")
		}
	}

	compiled := condition{Condition: c, metric: def}
	if compiled.errorThreshold, err = parseThreshold(rootKey, def, c.Error); err != nil {
		return condition{}, err
	}
	if compiled.warnThreshold, err = parseThreshold(rootKey, def, c.Warning); err != nil {
		return condition{}, err
	}
	return compiled, nil
}

func parseThreshold(rootKey string, def schema.Metric, raw string) (threshold, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return threshold{}, nil
	}
	th := threshold{set: true, raw: raw}
	if !def.Type.IsNumeric() {
		th.text = raw
		return th, nil
	}
	if def.Type == schema.RatingMetric {
		if v, ok := ratingLetters[strings.ToUpper(raw)]; ok {
			th.num = v
			return th, nil
		}
	}
	if def.Type == schema.BoolMetric {
		if b, err := strconv.ParseBool(raw); err == nil {
			if b {
				th.num = 1
			}
			return th, nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return threshold{}, schema.Preconditionf(rootKey, def.Key, raw, "invalid condition threshold")
	}
	th.num = v
	return th, nil
}

func (c condition) evaluate(store *measure.Store, rootRef int) schema.ConditionResult {
	cr := schema.ConditionResult{
		Metric:  c.Metric,
		Op:      c.Operator,
		Period:  c.Period,
		Error:   c.errorThreshold.raw,
		Warning: c.warnThreshold.raw,
		Level:   schema.OKLevel,
	}
	m, ok := store.Raw(rootRef, c.Metric)
	if !ok {
		return cr
	}

	var num float64
	var text string
	switch {
	case c.Period > 0:
		d, ok := m.Variations.Get(c.Period)
		if !ok {
			return cr
		}
		num = d
		cr.Actual = strconv.FormatFloat(d, 'f', -1, 64)
	case c.metric.Type.IsNumeric():
		v, ok := m.Value.Numeric()
		if !ok {
			return cr
		}
		num = v
		cr.Actual = m.Value.String()
	default:
		s, ok := m.Value.Text()
		if !ok {
			return cr
		}
		text = s
		cr.Actual = s
	}

	switch {
	case c.errorThreshold.set && c.matches(c.errorThreshold, num, text):
		cr.Level = schema.ErrorLevel
		cr.Text = c.describe(c.errorThreshold)
	case c.warnThreshold.set && c.matches(c.warnThreshold, num, text):
		cr.Level = schema.WarnLevel
		cr.Text = c.describe(c.warnThreshold)
	}
	return cr
}

func (c condition) matches(th threshold, num float64, text string) bool {
	if !c.metric.Type.IsNumeric() {
		equal := text == th.text
		if c.Operator == schema.NotEqualsOp {
			return !equal
		}
		return equal
	}
	switch c.Operator {
	case schema.EqualsOp:
		return num == th.num
	case schema.NotEqualsOp:
		return num != th.num
	case schema.GreaterThanOp:
		return num > th.num
	case schema.LessThanOp:
		return num < th.num
	default:
		return false
	}
}

// describe renders the alert text, e.g. "Coverage < 80" or "Issues (period 1) > 0".
func (c condition) describe(th threshold) string {
	name := c.metric.Name
	if c.Period > 0 {
		name = fmt.Sprintf("%s (period %d)", name, c.Period)
	}
	return fmt.Sprintf("%s %s %s", name, c.Operator.Symbol(), th.raw)
}
