package core

import (
	"context"

	"github.com/huangsam/gauge/core/measure"
	"github.com/huangsam/gauge/core/metric"
	"github.com/huangsam/gauge/core/tree"
	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/schema"
)

// toRecords converts every measure of the run into archive rows. FILE measures holding the
// optimized best value of their metric without variations nor alert are left out.
func toRecords(t *tree.Tree, store *measure.Store, catalog *metric.Catalog) []schema.MeasureRecord {
	var records []schema.MeasureRecord
	_ = t.Walk(tree.PreOrder, func(c *tree.Component) error {
		for _, e := range store.ByComponent(c.Ref) {
			def, ok := catalog.Get(e.Metric)
			if !ok {
				continue
			}
			m := e.Measure
			if m.IsAbsent() {
				continue
			}
			if c.Type == schema.FileComponent && isOptimizedBest(def, m) {
				continue
			}
			records = append(records, toRecord(c.UUID, e.Metric, m))
		}
		return nil
	})
	return records
}

func isOptimizedBest(def schema.Metric, m measure.Measure) bool {
	if !def.OptimizedBestValue || def.BestValue == nil || !m.Variations.IsEmpty() || m.AlertStatus != "" {
		return false
	}
	v, ok := m.Value.Numeric()
	return ok && v == *def.BestValue
}

func toRecord(componentUUID, metricKey string, m measure.Measure) schema.MeasureRecord {
	rec := schema.MeasureRecord{
		ComponentUUID:    componentUUID,
		MetricKey:        metricKey,
		RuleID:           m.Scope.RuleID,
		CharacteristicID: m.Scope.CharacteristicID,
		DeveloperID:      m.Scope.DeveloperID,
		Variations:       m.Variations.Pointers(),
	}
	switch m.Value.Kind() {
	case measure.NoValue:
	case measure.StringKind, measure.LevelKind:
		s, _ := m.Value.Text()
		rec.TextValue = &s
	case measure.BytesKind:
		rec.Data = m.Value.Data()
	default:
		v, _ := m.Value.Numeric()
		rec.Value = &v
	}
	if m.AlertStatus != "" {
		level := string(m.AlertStatus)
		rec.AlertStatus = &level
	}
	if m.Text != "" {
		text := m.Text
		rec.AlertText = &text
	}
	return rec
}

// fromRecord rebuilds a measure from an archive row, typed by its metric.
func fromRecord(def schema.Metric, rec schema.MeasureRecord) measure.Measure {
	m := measure.Measure{Variations: measure.VariationsFrom(rec.Variations)}
	switch {
	case def.Type == schema.DataMetric:
		if rec.Data != nil {
			m.Value = measure.Bytes(rec.Data)
		}
	case def.Type == schema.LevelMetric && rec.TextValue != nil:
		m.Value = measure.LevelValue(schema.Level(*rec.TextValue))
	case def.Type == schema.StringMetric && rec.TextValue != nil:
		m.Value = measure.String(*rec.TextValue)
	case def.Type.IsNumeric() && rec.Value != nil:
		m.Value = measure.FromNumeric(def.Type, *rec.Value)
	}
	if rec.AlertStatus != nil {
		m.AlertStatus = schema.Level(*rec.AlertStatus)
	}
	if rec.AlertText != nil {
		m.Text = *rec.AlertText
	}
	return m
}

// baseLoader serves the measures of the last processed analysis to the measure store.
type baseLoader struct {
	tree    *tree.Tree
	catalog *metric.Catalog
	store   contract.AnalysisStore
}

// LoadBase returns the unscoped measures a component had at the last processed analysis.
func (l baseLoader) LoadBase(ctx context.Context, ref int) (map[string]measure.Measure, error) {
	c, ok := l.tree.ByRef(ref)
	if !ok {
		return nil, nil
	}
	records, err := l.store.LastMeasures(ctx, c.UUID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]measure.Measure, len(records))
	for _, rec := range records {
		def, ok := l.catalog.Get(rec.MetricKey)
		if !ok {
			continue
		}
		out[rec.MetricKey] = fromRecord(def, rec)
	}
	return out, nil
}
