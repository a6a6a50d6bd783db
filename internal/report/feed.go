package report

import (
	"math"

	"github.com/huangsam/gauge/core/measure"
	"github.com/huangsam/gauge/core/metric"
	"github.com/huangsam/gauge/core/tree"
	"github.com/huangsam/gauge/schema"
)

// Feed stores the raw measures of the report. A measure on an unknown component or metric, a
// value that does not fit its metric type or a measure declared twice aborts the feed.
func (d *Document) Feed(t *tree.Tree, store *measure.Store, catalog *metric.Catalog) error {
	for _, m := range d.Measures {
		c, ok := t.ByRef(m.Ref)
		if !ok {
			return schema.Preconditionf("", m.Metric, m.Ref, "measure on unknown component ref")
		}
		def, err := catalog.MustGet(m.Metric)
		if err != nil {
			return err
		}
		v, err := toValue(c.Key, def, m.Value)
		if err != nil {
			return err
		}
		entry := measure.Measure{
			Value: v,
			Scope: measure.Scope{
				RuleID:           m.RuleID,
				CharacteristicID: m.CharacteristicID,
				DeveloperID:      m.DeveloperID,
			},
		}
		if err := store.Add(m.Ref, m.Metric, entry); err != nil {
			return schema.Preconditionf(c.Key, m.Metric, m.Ref, "measure declared twice")
		}
	}
	return nil
}

func toValue(component string, def schema.Metric, raw any) (measure.Value, error) {
	if raw == nil {
		return measure.None(), nil
	}
	switch def.Type {
	case schema.StringMetric:
		if s, ok := raw.(string); ok {
			return measure.String(s), nil
		}
	case schema.DataMetric:
		if s, ok := raw.(string); ok {
			return measure.Bytes([]byte(s)), nil
		}
	case schema.LevelMetric:
		if s, ok := raw.(string); ok {
			switch l := schema.Level(s); l {
			case schema.OKLevel, schema.WarnLevel, schema.ErrorLevel:
				return measure.LevelValue(l), nil
			}
		}
	case schema.BoolMetric:
		switch b := raw.(type) {
		case bool:
			return measure.Bool(b), nil
		case float64:
			return measure.Bool(b != 0), nil
		}
	case schema.IntMetric, schema.WorkDurMetric, schema.RatingMetric:
		if f, ok := raw.(float64); ok {
			if f != math.Trunc(f) {
				return measure.None(), schema.Preconditionf(component, def.Key, raw, "fractional value for metric type %s", def.Type)
			}
			return measure.FromNumeric(def.Type, f), nil
		}
	default:
		if f, ok := raw.(float64); ok {
			return measure.FromNumeric(def.Type, f), nil
		}
	}
	return measure.None(), schema.Preconditionf(component, def.Key, raw, "value does not fit metric type %s", def.Type)
}
