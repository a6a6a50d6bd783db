// Package newcode computes the "new code" metrics from per-line change dates.
//
// A line is new for a period when it changed strictly after the period's snapshot date and
// strictly before the analysis date. Values live in the variation slots of each period only.
package newcode

import (
	"time"

	"github.com/huangsam/gauge/core/agg"
	"github.com/huangsam/gauge/core/measure"
	"github.com/huangsam/gauge/core/metric"
	"github.com/huangsam/gauge/core/period"
	"github.com/huangsam/gauge/core/tree"
)

// Line is the change and coverage metadata of one source line.
type Line struct {
	ChangedAt time.Time // zero when unknown
	Coverable bool
	Covered   bool
}

// FileLines holds the line metadata of one file. HasCoverage is false when the report
// carried no per-line coverage for it.
type FileLines struct {
	Ref         int
	HasCoverage bool
	Lines       []Line
}

// Formulas roll the per-file counts up the tree and derive new_coverage.
func Formulas() []agg.Formula {
	return []agg.Formula{
		{Kind: agg.Sum, Metric: metric.NewLines, OnVariations: true},
		{Kind: agg.Sum, Metric: metric.NewLinesToCover, OnVariations: true},
		{Kind: agg.Sum, Metric: metric.NewUncoveredLines, OnVariations: true},
		{
			Kind:         agg.DensityRatio,
			Metric:       metric.NewCoverage,
			Inputs:       []string{metric.NewUncoveredLines},
			Denominator:  []string{metric.NewLinesToCover},
			Complement:   true,
			OnVariations: true,
		},
	}
}

// Compute writes new_lines, new_lines_to_cover and new_uncovered_lines on every non-test file
// with line data, then aggregates them together with new_coverage. Nothing happens without
// periods.
func Compute(t *tree.Tree, store *measure.Store, catalog *metric.Catalog, periods *period.Set, files []FileLines, analysisDate time.Time) error {
	active := periods.All()
	if len(active) == 0 {
		return nil
	}

	for _, fl := range files {
		c, ok := t.ByRef(fl.Ref)
		if !ok || c.IsUnitTest || !c.IsLeaf() {
			continue
		}
		var lines, toCover, uncovered measure.Variations
		for _, p := range active {
			var n, nc, nu int
			for _, l := range fl.Lines {
				if !isNew(l.ChangedAt, p.SnapshotDate, analysisDate) {
					continue
				}
				n++
				if l.Coverable {
					nc++
					if !l.Covered {
						nu++
					}
				}
			}
			lines.Set(p.Index, float64(n))
			if fl.HasCoverage {
				toCover.Set(p.Index, float64(nc))
				uncovered.Set(p.Index, float64(nu))
			}
		}
		store.Put(fl.Ref, metric.NewLines, measure.Measure{Variations: lines})
		if fl.HasCoverage {
			store.Put(fl.Ref, metric.NewLinesToCover, measure.Measure{Variations: toCover})
			store.Put(fl.Ref, metric.NewUncoveredLines, measure.Measure{Variations: uncovered})
		}
	}
	return agg.Aggregate(t, store, catalog, Formulas()...)
}

func isNew(changedAt, since, until time.Time) bool {
	return !changedAt.IsZero() && changedAt.After(since) && changedAt.Before(until)
}
