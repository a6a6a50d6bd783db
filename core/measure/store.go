package measure

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/huangsam/gauge/schema"
)

// BaseLoader loads the measures a component had at the last processed analysis.
type BaseLoader interface {
	LoadBase(ctx context.Context, ref int) (map[string]Measure, error)
}

// Entry is one stored measure with its address.
type Entry struct {
	Ref     int
	Metric  string
	Measure Measure
}

type storeKey struct {
	ref    int
	metric string
	scope  Scope
}

// Store holds every measure of one run, keyed by component ref, metric key and scope.
// It is owned by a single run and is not safe for concurrent use.
type Store struct {
	measures map[storeKey]Measure
	base     BaseLoader
	previous map[int]map[string]Measure
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{measures: make(map[storeKey]Measure)}
}

// WithBase sets the loader used by Previous.
func (s *Store) WithBase(base BaseLoader) *Store {
	s.base = base
	s.previous = make(map[int]map[string]Measure)
	return s
}

// Add stores a new measure. The scope is taken from m.
func (s *Store) Add(ref int, metricKey string, m Measure) error {
	k := storeKey{ref, metricKey, m.Scope}
	if _, exists := s.measures[k]; exists {
		return schema.Preconditionf(fmt.Sprint(ref), metricKey, nil, "measure already exists")
	}
	s.measures[k] = m
	return nil
}

// Update replaces an existing measure. The scope is taken from m.
func (s *Store) Update(ref int, metricKey string, m Measure) error {
	k := storeKey{ref, metricKey, m.Scope}
	if _, exists := s.measures[k]; !exists {
		return schema.Preconditionf(fmt.Sprint(ref), metricKey, nil, "measure does not exist")
	}
	s.measures[k] = m
	return nil
}

// Put adds or replaces a measure.
func (s *Store) Put(ref int, metricKey string, m Measure) {
	s.measures[storeKey{ref, metricKey, m.Scope}] = m
}

// Raw returns the unscoped measure of a component.
func (s *Store) Raw(ref int, metricKey string) (Measure, bool) {
	return s.RawScoped(ref, metricKey, Scope{})
}

// RawScoped returns the measure of a component for a given scope.
func (s *Store) RawScoped(ref int, metricKey string, scope Scope) (Measure, bool) {
	m, ok := s.measures[storeKey{ref, metricKey, scope}]
	return m, ok
}

// Delete removes a measure.
func (s *Store) Delete(ref int, metricKey string, scope Scope) {
	delete(s.measures, storeKey{ref, metricKey, scope})
}

// Len returns the number of stored measures.
func (s *Store) Len() int {
	return len(s.measures)
}

// ByComponent returns the measures of one component ordered by metric key then scope.
func (s *Store) ByComponent(ref int) []Entry {
	var out []Entry
	for k, m := range s.measures {
		if k.ref == ref {
			out = append(out, Entry{Ref: k.ref, Metric: k.metric, Measure: m})
		}
	}
	slices.SortFunc(out, compareEntries)
	return out
}

// Each visits every measure ordered by ref, metric key and scope. It stops at the first error.
func (s *Store) Each(fn func(e Entry) error) error {
	all := make([]Entry, 0, len(s.measures))
	for k, m := range s.measures {
		all = append(all, Entry{Ref: k.ref, Metric: k.metric, Measure: m})
	}
	slices.SortFunc(all, compareEntries)
	for _, e := range all {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

// Previous returns the unscoped measure the component had at the last processed analysis.
// Base measures are loaded once per component.
func (s *Store) Previous(ctx context.Context, ref int, metricKey string) (Measure, bool, error) {
	if s.base == nil {
		return Measure{}, false, nil
	}
	byMetric, loaded := s.previous[ref]
	if !loaded {
		var err error
		byMetric, err = s.base.LoadBase(ctx, ref)
		if err != nil {
			return Measure{}, false, fmt.Errorf("failed to load base measures: %w", err)
		}
		s.previous[ref] = byMetric
	}
	m, ok := byMetric[metricKey]
	return m, ok, nil
}

func compareEntries(a, b Entry) int {
	return cmp.Or(
		cmp.Compare(a.Ref, b.Ref),
		cmp.Compare(a.Metric, b.Metric),
		cmp.Compare(a.Measure.Scope.RuleID, b.Measure.Scope.RuleID),
		cmp.Compare(a.Measure.Scope.CharacteristicID, b.Measure.Scope.CharacteristicID),
		cmp.Compare(a.Measure.Scope.DeveloperID, b.Measure.Scope.DeveloperID),
	)
}
