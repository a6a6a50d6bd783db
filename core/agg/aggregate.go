package agg

import (
	"github.com/huangsam/gauge/core/measure"
	"github.com/huangsam/gauge/core/metric"
	"github.com/huangsam/gauge/core/tree"
	"github.com/huangsam/gauge/schema"
)

// slotAcc is a partial sum that remembers whether anything contributed to it.
type slotAcc struct {
	v  float64
	ok bool
}

func (s *slotAcc) add(o slotAcc) {
	if o.ok {
		s.v += o.v
		s.ok = true
	}
}

func (s *slotAcc) addValue(v float64) {
	s.v += v
	s.ok = true
}

// accum carries the running sums of one formula for one subtree. Sum uses num only,
// WeightedRating uses num as the development cost.
type accum struct {
	num, den       slotAcc
	varNum, varDen [schema.MaxPeriods]slotAcc
}

func (a *accum) merge(o accum) {
	a.num.add(o.num)
	a.den.add(o.den)
	for i := range a.varNum {
		a.varNum[i].add(o.varNum[i])
		a.varDen[i].add(o.varDen[i])
	}
}

// Aggregate evaluates the formulas over the whole tree in one post-order walk. At every node the
// formulas run in the given order, so a formula may read what an earlier one wrote on that node.
// Re-running it on an unchanged store writes the same values.
func Aggregate(t *tree.Tree, store *measure.Store, catalog *metric.Catalog, formulas ...Formula) error {
	outputs := make([]schema.Metric, len(formulas))
	for i, f := range formulas {
		m, err := catalog.MustGet(f.Metric)
		if err != nil {
			return err
		}
		if f.Kind == WeightedRating && f.Rating == nil {
			return schema.Preconditionf("", f.Metric, nil, "weighted rating formula has no rating model")
		}
		outputs[i] = m
	}

	// One accumulator map per formula, keyed by ref. Child entries are released once merged.
	accs := make([]map[int]accum, len(formulas))
	for i := range accs {
		accs[i] = make(map[int]accum)
	}

	return t.Walk(tree.PostOrder, func(c *tree.Component) error {
		children := t.Children(c)
		for i, f := range formulas {
			var acc accum
			if c.IsLeaf() {
				acc = leafAccum(store, c, f)
			} else {
				for _, child := range children {
					acc.merge(accs[i][child.Ref])
					delete(accs[i], child.Ref)
				}
			}
			accs[i][c.Ref] = acc

			if f.excludes(c.Type) {
				continue
			}
			if err := emit(store, catalog, c, f, outputs[i], acc); err != nil {
				return err
			}
		}
		return nil
	})
}

// leafAccum reads the raw contribution of a leaf.
func leafAccum(store *measure.Store, c *tree.Component, f Formula) accum {
	var acc accum
	if f.SkipUnitTests && c.IsUnitTest {
		return acc
	}
	switch f.Kind {
	case Sum:
		addRaw(store, c.Ref, f.inputs(), &acc.num, &acc.varNum)
	case DensityRatio:
		addRaw(store, c.Ref, f.inputs(), &acc.num, &acc.varNum)
		addRaw(store, c.Ref, f.Denominator, &acc.den, &acc.varDen)
		if !acc.den.ok && len(f.DenominatorFallback) > 0 {
			addRaw(store, c.Ref, f.DenominatorFallback, &acc.den, &acc.varDen)
		}
	case WeightedRating:
		acc.num.addValue(0)
		if c.Type == schema.FileComponent && !c.IsUnitTest {
			if m, ok := store.Raw(c.Ref, f.Rating.SizeMetric); ok {
				if size, ok := m.Value.Numeric(); ok {
					acc.num.addValue(size * f.Rating.unitCost(c.Language))
				}
			}
		}
	}
	return acc
}

// addRaw adds the raw values and variation slots of the given metrics.
func addRaw(store *measure.Store, ref int, keys []string, value *slotAcc, slots *[schema.MaxPeriods]slotAcc) {
	for _, key := range keys {
		m, ok := store.Raw(ref, key)
		if !ok {
			continue
		}
		if v, ok := m.Value.Numeric(); ok {
			value.addValue(v)
		}
		for p := 1; p <= schema.MaxPeriods; p++ {
			if d, ok := m.Variations.Get(p); ok {
				slots[p-1].addValue(d)
			}
		}
	}
}

// emit writes the outcome of one formula on one node.
func emit(store *measure.Store, catalog *metric.Catalog, c *tree.Component, f Formula, out schema.Metric, acc accum) error {
	switch f.Kind {
	case Sum:
		if c.IsLeaf() {
			return nil
		}
		if f.OnVariations {
			var vars measure.Variations
			for p := 1; p <= schema.MaxPeriods; p++ {
				if s := acc.varNum[p-1]; s.ok {
					vars.Set(p, s.v)
				}
			}
			putVariations(store, c.Ref, out.Key, vars)
			return nil
		}
		switch {
		case acc.num.ok:
			putValue(store, c.Ref, out.Key, measure.FromNumeric(out.Type, acc.num.v))
		case f.DefaultZero:
			putValue(store, c.Ref, out.Key, measure.FromNumeric(out.Type, 0))
		}

	case DensityRatio:
		if f.OnVariations {
			var vars measure.Variations
			for p := 1; p <= schema.MaxPeriods; p++ {
				if v, ok := density(f, acc.varNum[p-1], acc.varDen[p-1]); ok {
					vars.Set(p, v)
				}
			}
			putVariations(store, c.Ref, out.Key, vars)
			return nil
		}
		if v, ok := density(f, acc.num, acc.den); ok {
			putValue(store, c.Ref, out.Key, measure.FromNumeric(out.Type, v))
		}

	case WeightedRating:
		model := f.Rating
		costMetric, err := catalog.MustGet(model.CostMetric)
		if err != nil {
			return err
		}
		ratioMetric, err := catalog.MustGet(model.RatioMetric)
		if err != nil {
			return err
		}
		cost := acc.num.v
		debt := 0.0
		if m, ok := store.Raw(c.Ref, model.DebtMetric); ok {
			debt, _ = m.Value.Numeric()
		}
		ratio := 0.0
		if cost != 0 {
			ratio = debt / cost
		}
		putValue(store, c.Ref, costMetric.Key, measure.FromNumeric(costMetric.Type, cost))
		putValue(store, c.Ref, ratioMetric.Key, measure.FromNumeric(ratioMetric.Type, ratio*100))
		putValue(store, c.Ref, out.Key, measure.FromNumeric(out.Type, float64(model.Rate(ratio))))
	}
	return nil
}

// density divides the summed numerator by the summed denominator. A zero or absent
// denominator produces nothing. An absent numerator counts as zero.
func density(f Formula, num, den slotAcc) (float64, bool) {
	if !den.ok || den.v == 0 {
		return 0, false
	}
	n := num.v
	if f.Complement {
		n = den.v - num.v
	}
	return n / den.v * f.scale(), true
}

// putValue sets the value of a measure and keeps its other fields.
func putValue(store *measure.Store, ref int, key string, v measure.Value) {
	m, _ := store.Raw(ref, key)
	m.Value = v
	store.Put(ref, key, m)
}

// putVariations sets the variations of a measure and keeps its other fields. Nothing is
// written when no slot is set and the measure does not exist yet.
func putVariations(store *measure.Store, ref int, key string, vars measure.Variations) {
	m, exists := store.Raw(ref, key)
	if !exists && vars.IsEmpty() {
		return
	}
	m.Variations = vars
	store.Put(ref, key, m)
}
