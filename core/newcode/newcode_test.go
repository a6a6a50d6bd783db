package newcode

import (
	"testing"
	"time"

	"github.com/huangsam/gauge/core/measure"
	"github.com/huangsam/gauge/core/metric"
	"github.com/huangsam/gauge/core/period"
	"github.com/huangsam/gauge/core/tree"
	"github.com/huangsam/gauge/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(d int) time.Time {
	return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC)
}

func sampleTree(t *testing.T) *tree.Tree {
	t.Helper()
	b := tree.NewBuilder()
	require.NoError(t, b.Add(tree.Component{Ref: 1, Key: "p", Type: schema.ProjectComponent}))
	require.NoError(t, b.Add(tree.Component{Ref: 2, Key: "p:a.go", Type: schema.FileComponent}))
	require.NoError(t, b.Add(tree.Component{Ref: 3, Key: "p:b.go", Type: schema.FileComponent}))
	require.NoError(t, b.Add(tree.Component{Ref: 4, Key: "p:a_test.go", Type: schema.FileComponent, IsUnitTest: true}))
	b.Link(1, 2)
	b.Link(1, 3)
	b.Link(1, 4)
	tr, err := b.Build()
	require.NoError(t, err)
	return tr
}

func slot(t *testing.T, s *measure.Store, ref int, key string, p int) (float64, bool) {
	t.Helper()
	m, ok := s.Raw(ref, key)
	if !ok {
		return 0, false
	}
	assert.False(t, m.Value.IsSet(), "%s holds variations only", key)
	return m.Variations.Get(p)
}

func TestCompute(t *testing.T) {
	tr := sampleTree(t)
	s := measure.NewStore()
	periods, err := period.NewSet(
		schema.Period{Index: 1, SnapshotDate: date(1)},
		schema.Period{Index: 3, SnapshotDate: date(10)},
	)
	require.NoError(t, err)
	analysisDate := date(20)

	files := []FileLines{
		{Ref: 2, HasCoverage: true, Lines: []Line{
			{ChangedAt: date(5), Coverable: true, Covered: true},
			{ChangedAt: date(12), Coverable: true},
			{ChangedAt: date(15)},
			// changed on the period 3 date, on the analysis date, then unknown
			{ChangedAt: date(10), Coverable: true},
			{ChangedAt: date(20), Coverable: true},
			{ChangedAt: time.Time{}, Coverable: true},
		}},
		{Ref: 3, Lines: []Line{
			{ChangedAt: date(2)},
			{ChangedAt: date(11)},
		}},
		{Ref: 4, HasCoverage: true, Lines: []Line{{ChangedAt: date(12), Coverable: true}}},
	}
	require.NoError(t, Compute(tr, s, metric.Default(), periods, files, analysisDate))

	v, ok := slot(t, s, 2, metric.NewLines, 1)
	require.True(t, ok)
	assert.Equal(t, 4.0, v)
	v, _ = slot(t, s, 2, metric.NewLines, 3)
	assert.Equal(t, 2.0, v)
	_, ok = slot(t, s, 2, metric.NewLines, 2)
	assert.False(t, ok)

	v, _ = slot(t, s, 2, metric.NewLinesToCover, 1)
	assert.Equal(t, 3.0, v)
	v, _ = slot(t, s, 2, metric.NewUncoveredLines, 1)
	assert.Equal(t, 2.0, v)
	v, _ = slot(t, s, 2, metric.NewCoverage, 1)
	assert.InDelta(t, 33.333, v, 0.001)
	v, _ = slot(t, s, 2, metric.NewCoverage, 3)
	assert.Equal(t, 0.0, v)

	_, ok = s.Raw(3, metric.NewLinesToCover)
	assert.False(t, ok, "no coverage data for b.go")
	_, ok = s.Raw(4, metric.NewLines)
	assert.False(t, ok, "unit tests are ignored")

	v, _ = slot(t, s, 1, metric.NewLines, 1)
	assert.Equal(t, 6.0, v)
	v, _ = slot(t, s, 1, metric.NewLines, 3)
	assert.Equal(t, 3.0, v)
	v, _ = slot(t, s, 1, metric.NewCoverage, 1)
	assert.InDelta(t, 33.333, v, 0.001)
}

func TestCompute_NoPeriods(t *testing.T) {
	tr := sampleTree(t)
	s := measure.NewStore()
	files := []FileLines{{Ref: 2, Lines: []Line{{ChangedAt: date(5)}}}}

	require.NoError(t, Compute(tr, s, metric.Default(), &period.Set{}, files, date(20)))
	assert.Equal(t, 0, s.Len())
}
