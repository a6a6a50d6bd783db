// Package variation computes the deltas between current measures and their archived values at
// each period's snapshot.
package variation

import (
	"context"
	"fmt"

	"github.com/huangsam/gauge/core/measure"
	"github.com/huangsam/gauge/core/metric"
	"github.com/huangsam/gauge/core/period"
	"github.com/huangsam/gauge/core/tree"
	"github.com/huangsam/gauge/schema"
)

// Archive returns the archived numeric values of one component, by snapshot id then metric key.
type Archive interface {
	ArchivedValues(ctx context.Context, componentUUID string, snapshotIDs []int64) (map[int64]map[string]float64, error)
}

// Calculator attaches variations to the numeric measures of a run.
type Calculator struct {
	Catalog *metric.Catalog
	Archive Archive
	Periods *period.Set
}

// ComputeAll sets the variations of every numeric measure of every component. The archive is
// queried once per component for all periods.
func (c *Calculator) ComputeAll(ctx context.Context, t *tree.Tree, store *measure.Store) error {
	if c.Periods.Len() == 0 {
		return nil
	}
	return t.Walk(tree.PreOrder, func(comp *tree.Component) error {
		archived, err := c.load(ctx, comp)
		if err != nil {
			return err
		}
		for _, e := range store.ByComponent(comp.Ref) {
			if !e.Measure.Scope.IsZero() {
				continue
			}
			c.apply(store, comp, e.Metric, e.Measure, archived)
		}
		return nil
	})
}

// ComputeVariations sets the variations of one measure of one component.
func (c *Calculator) ComputeVariations(ctx context.Context, store *measure.Store, comp *tree.Component, metricKey string) error {
	if c.Periods.Len() == 0 {
		return nil
	}
	m, ok := store.Raw(comp.Ref, metricKey)
	if !ok {
		return nil
	}
	archived, err := c.load(ctx, comp)
	if err != nil {
		return err
	}
	c.apply(store, comp, metricKey, m, archived)
	return nil
}

func (c *Calculator) load(ctx context.Context, comp *tree.Component) (map[int64]map[string]float64, error) {
	archived, err := c.Archive.ArchivedValues(ctx, comp.UUID, c.Periods.SnapshotIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to load archived values of %s: %w", comp.Key, err)
	}
	return archived, nil
}

// apply computes current - archived for each period. Slots without an archived value are
// emptied. Measures of non-numeric or delta-only metrics are left untouched.
//
// FILE measures at their metric's optimized best value are not archived, so a FILE that was
// archived at a snapshot without such a metric held its best value there.
func (c *Calculator) apply(store *measure.Store, comp *tree.Component, metricKey string, m measure.Measure, archived map[int64]map[string]float64) {
	def, ok := c.Catalog.Get(metricKey)
	if !ok || !def.Type.IsNumeric() || def.DeltaOnly {
		return
	}
	current, ok := m.Value.Numeric()
	if !ok {
		return
	}
	for _, p := range c.Periods.All() {
		values, existed := archived[p.SnapshotID]
		past, ok := values[metricKey]
		if !ok && existed && comp.Type == schema.FileComponent && def.OptimizedBestValue && def.BestValue != nil {
			past, ok = *def.BestValue, true
		}
		if !ok {
			m.Variations.Clear(p.Index)
			continue
		}
		m.Variations.Set(p.Index, current-past)
	}
	store.Put(comp.Ref, metricKey, m)
}
