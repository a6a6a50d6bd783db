package core

import (
	"context"
	"errors"
	"testing"

	"github.com/huangsam/gauge/core/agg"
	"github.com/huangsam/gauge/core/measure"
	"github.com/huangsam/gauge/core/metric"
	"github.com/huangsam/gauge/core/tree"
	"github.com/huangsam/gauge/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallTree(t *testing.T) *tree.Tree {
	t.Helper()
	b := tree.NewBuilder()
	require.NoError(t, b.Add(tree.Component{Ref: 1, Type: schema.ProjectComponent, Key: "p", UUID: "u1"}))
	require.NoError(t, b.Add(tree.Component{Ref: 2, Type: schema.DirectoryComponent, Key: "p:src", Path: "src", UUID: "u2"}))
	require.NoError(t, b.Add(tree.Component{Ref: 3, Type: schema.FileComponent, Key: "p:src/a.go", Path: "src/a.go", UUID: "u3"}))
	require.NoError(t, b.Add(tree.Component{Ref: 4, Type: schema.FileComponent, Key: "p:src/b.go", Path: "src/b.go", UUID: "u4"}))
	b.Link(1, 2)
	b.Link(2, 3)
	b.Link(2, 4)
	tr, err := b.Build()
	require.NoError(t, err)
	return tr
}

type feederFunc func(t *tree.Tree, store *measure.Store, catalog *metric.Catalog) error

func (f feederFunc) Feed(t *tree.Tree, store *measure.Store, catalog *metric.Catalog) error {
	return f(t, store, catalog)
}

func newRun(t *testing.T) *Run {
	t.Helper()
	return &Run{
		Tree:    smallTree(t),
		Store:   measure.NewStore(),
		Catalog: metric.Default(),
		Feeder: feederFunc(func(_ *tree.Tree, store *measure.Store, _ *metric.Catalog) error {
			if err := store.Add(3, metric.NCLoc, measure.New(measure.Int(40))); err != nil {
				return err
			}
			return store.Add(4, metric.NCLoc, measure.New(measure.Int(60)))
		}),
		Dependencies: []schema.Dependency{{From: 3, To: 4, Weight: 2}, {From: 4, To: 3, Weight: 1}},
	}
}

func TestExecuteDefaultSteps(t *testing.T) {
	run := newRun(t)
	require.NoError(t, Execute(context.Background(), run, DefaultSteps()...))

	root, ok := run.Store.Raw(1, metric.NCLoc)
	require.True(t, ok)
	n, _ := root.Value.Numeric()
	assert.Equal(t, 100.0, n)

	files, ok := run.Store.Raw(2, metric.Files)
	require.True(t, ok)
	n, _ = files.Value.Numeric()
	assert.Equal(t, 2.0, n)

	// The directory holds the cycle between its two files
	require.NotEmpty(t, run.Result.DSM)
	cycles, ok := run.Store.Raw(2, metric.DependencyCycles)
	require.True(t, ok)
	n, _ = cycles.Value.Numeric()
	assert.Equal(t, 1.0, n)
	_, ok = run.Store.Raw(2, metric.DSM)
	assert.True(t, ok)

	// No gate and no archive configured
	assert.Nil(t, run.Result.Gate)
	_, ok = run.Store.Raw(1, metric.AlertStatus)
	assert.False(t, ok)
}

func TestExecuteWithGate(t *testing.T) {
	run := newRun(t)
	run.Gate = &schema.QualityGate{
		Name:       "size",
		Conditions: []schema.Condition{{Metric: metric.NCLoc, Operator: schema.GreaterThanOp, Warning: "50"}},
	}
	require.NoError(t, Execute(context.Background(), run, DefaultSteps()...))
	require.NotNil(t, run.Result.Gate)
	assert.Equal(t, schema.WarnLevel, run.Result.Gate.Level)

	status, ok := run.Store.Raw(1, metric.AlertStatus)
	require.True(t, ok)
	assert.Equal(t, schema.WarnLevel, status.Value.Level())
}

func TestExecuteStopsAtFirstFailure(t *testing.T) {
	run := newRun(t)
	var ran []string
	record := func(name string, err error) Step {
		return StepFunc{StepName: name, Fn: func(context.Context, *Run) error {
			ran = append(ran, name)
			return err
		}}
	}

	err := Execute(context.Background(), run, record("one", nil), record("two", assert.AnError), record("three", nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, assert.AnError))
	assert.Contains(t, err.Error(), "step two")
	assert.Equal(t, []string{"one", "two"}, ran)
}

func TestExecuteHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Execute(ctx, newRun(t), DefaultSteps()...)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteFeedFailure(t *testing.T) {
	run := newRun(t)
	run.Feeder = feederFunc(func(_ *tree.Tree, store *measure.Store, _ *metric.Catalog) error {
		if err := store.Add(3, metric.NCLoc, measure.New(measure.Int(1))); err != nil {
			return err
		}
		return store.Add(3, metric.NCLoc, measure.New(measure.Int(2)))
	})
	err := Execute(context.Background(), run, DefaultSteps()...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step feed")
}

func TestAggregateStepUsesRatingModel(t *testing.T) {
	run := newRun(t)
	run.Feeder = feederFunc(func(_ *tree.Tree, store *measure.Store, _ *metric.Catalog) error {
		for _, ref := range []int{3, 4} {
			if err := store.Add(ref, metric.NCLoc, measure.New(measure.Int(10))); err != nil {
				return err
			}
			if err := store.Add(ref, metric.TechnicalDebt, measure.New(measure.Long(60))); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, Execute(context.Background(), run, DefaultSteps()...))
	strict, ok := run.Store.Raw(1, metric.Rating)
	require.True(t, ok)

	lenient := newRun(t)
	lenient.Feeder = run.Feeder
	lenient.Rating = agg.DefaultRatingModel()
	lenient.Rating.DefaultUnitCost = 1000
	require.NoError(t, Execute(context.Background(), lenient, DefaultSteps()...))
	relaxed, ok := lenient.Store.Raw(1, metric.Rating)
	require.True(t, ok)

	s, _ := strict.Value.Numeric()
	r, _ := relaxed.Value.Numeric()
	assert.Equal(t, 4.0, s)
	assert.Equal(t, 1.0, r)
}
