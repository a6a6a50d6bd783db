package measure

import (
	"context"
	"errors"
	"testing"

	"github.com/huangsam/gauge/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Numeric(t *testing.T) {
	tests := []struct {
		name    string
		value   Value
		want    float64
		numeric bool
		text    string
	}{
		{"int", Int(42), 42, true, "42"},
		{"long", Long(1200), 1200, true, "1200"},
		{"float", Float(12.5), 12.5, true, "12.5"},
		{"bool true", Bool(true), 1, true, "true"},
		{"bool false", Bool(false), 0, true, "false"},
		{"string", String("abc"), 0, false, "abc"},
		{"level", LevelValue(schema.WarnLevel), 0, false, "WARN"},
		{"bytes", Bytes([]byte{1, 2, 3}), 0, false, "<3 bytes>"},
		{"none", None(), 0, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Numeric()
			assert.Equal(t, tt.numeric, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, tt.value.String())
		})
	}
}

func TestFromNumeric(t *testing.T) {
	assert.Equal(t, IntKind, FromNumeric(schema.IntMetric, 3).Kind())
	assert.Equal(t, IntKind, FromNumeric(schema.RatingMetric, 2).Kind())
	assert.Equal(t, LongKind, FromNumeric(schema.WorkDurMetric, 30).Kind())
	assert.Equal(t, FloatKind, FromNumeric(schema.PercentMetric, 12.5).Kind())
	assert.True(t, FromNumeric(schema.BoolMetric, 1).Equal(Bool(true)))
}

func TestVariations(t *testing.T) {
	var v Variations
	assert.True(t, v.IsEmpty())

	v.Set(1, 80)
	v.Set(3, 0)
	d, ok := v.Get(3)
	assert.True(t, ok)
	assert.Equal(t, 0.0, d)
	_, ok = v.Get(2)
	assert.False(t, ok)

	p := v.Pointers()
	require.NotNil(t, p[0])
	assert.Equal(t, 80.0, *p[0])
	assert.Nil(t, p[1])
	require.NotNil(t, p[2])
	assert.Equal(t, v, VariationsFrom(p))

	v.Clear(1)
	v.Clear(3)
	assert.True(t, v.IsEmpty())

	assert.Panics(t, func() { v.Set(6, 1) })
	assert.Panics(t, func() { v.Get(0) })
}

func TestMeasure_IsAbsent(t *testing.T) {
	assert.True(t, Measure{}.IsAbsent())
	assert.True(t, Measure{Text: "alert only"}.IsAbsent())
	assert.False(t, New(Int(0)).IsAbsent())

	var m Measure
	m.Variations.Set(2, 1)
	assert.False(t, m.IsAbsent())
}

func TestStore_AddUpdatePut(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Add(1, "ncloc", New(Int(10))))
	err := s.Add(1, "ncloc", New(Int(11)))
	var pe *schema.PreconditionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "ncloc", pe.Metric)
	assert.Equal(t, "1", pe.Component)

	require.NoError(t, s.Update(1, "ncloc", New(Int(12))))
	m, ok := s.Raw(1, "ncloc")
	require.True(t, ok)
	v, _ := m.Value.Numeric()
	assert.Equal(t, 12.0, v)

	err = s.Update(2, "ncloc", New(Int(1)))
	assert.ErrorContains(t, err, "measure does not exist")

	s.Put(2, "ncloc", New(Int(1)))
	s.Put(2, "ncloc", New(Int(2)))
	assert.Equal(t, 2, s.Len())

	s.Delete(2, "ncloc", Scope{})
	_, ok = s.Raw(2, "ncloc")
	assert.False(t, ok)
}

func TestStore_Scopes(t *testing.T) {
	s := NewStore()
	s.Put(1, "violations", New(Int(5)))
	s.Put(1, "violations", Measure{Value: Int(2), Scope: Scope{RuleID: 7}})
	s.Put(1, "violations", Measure{Value: Int(3), Scope: Scope{DeveloperID: "dev-1"}})

	m, ok := s.RawScoped(1, "violations", Scope{RuleID: 7})
	require.True(t, ok)
	assert.True(t, m.Value.Equal(Int(2)))

	m, ok = s.Raw(1, "violations")
	require.True(t, ok)
	assert.True(t, m.Value.Equal(Int(5)))

	entries := s.ByComponent(1)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].Measure.Scope.IsZero())
	assert.Equal(t, "dev-1", entries[1].Measure.Scope.DeveloperID)
	assert.Equal(t, int64(7), entries[2].Measure.Scope.RuleID)
}

func TestStore_EachOrdered(t *testing.T) {
	s := NewStore()
	s.Put(2, "b", New(Int(1)))
	s.Put(1, "z", New(Int(1)))
	s.Put(1, "a", New(Int(1)))

	var seen []string
	require.NoError(t, s.Each(func(e Entry) error {
		seen = append(seen, e.Metric)
		return nil
	}))
	assert.Equal(t, []string{"a", "z", "b"}, seen)

	boom := errors.New("boom")
	err := s.Each(func(Entry) error { return boom })
	assert.ErrorIs(t, err, boom)
}

type countingLoader struct {
	calls int
	base  map[int]map[string]Measure
	err   error
}

func (l *countingLoader) LoadBase(_ context.Context, ref int) (map[string]Measure, error) {
	l.calls++
	return l.base[ref], l.err
}

func TestStore_Previous(t *testing.T) {
	ctx := context.Background()

	_, ok, err := NewStore().Previous(ctx, 1, "ncloc")
	require.NoError(t, err)
	assert.False(t, ok)

	loader := &countingLoader{base: map[int]map[string]Measure{
		1: {"ncloc": New(Int(90))},
	}}
	s := NewStore().WithBase(loader)

	m, ok, err := s.Previous(ctx, 1, "ncloc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, m.Value.Equal(Int(90)))

	_, ok, err = s.Previous(ctx, 1, "lines")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, loader.calls)

	failing := NewStore().WithBase(&countingLoader{err: errors.New("db down")})
	_, _, err = failing.Previous(ctx, 3, "ncloc")
	assert.ErrorContains(t, err, "failed to load base measures: db down")
}
