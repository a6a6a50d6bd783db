// Package metric provides the catalog of metric definitions used by every analysis step.
package metric

import (
	"cmp"
	"slices"

	"github.com/huangsam/gauge/schema"
)

// Catalog is a lookup of metric definitions by key. It is loaded once per run and only grows
// through Add before the pipeline starts.
type Catalog struct {
	byKey map[string]schema.Metric
	maxID int
}

// NewCatalog builds a catalog from the given metrics.
func NewCatalog(metrics ...schema.Metric) (*Catalog, error) {
	c := &Catalog{byKey: make(map[string]schema.Metric, len(metrics))}
	for _, m := range metrics {
		if err := c.Add(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Default returns a catalog holding the built-in metrics.
func Default() *Catalog {
	c, err := NewCatalog(builtins()...)
	if err != nil {
		panic(err) // built-in definitions are static
	}
	return c
}

// Add registers a metric. A zero ID is replaced by the next free one.
func (c *Catalog) Add(m schema.Metric) error {
	if m.Key == "" {
		return &schema.PreconditionError{Reason: "metric key is empty"}
	}
	if _, ok := schema.ValidMetricTypes[m.Type]; !ok {
		return schema.Preconditionf("", m.Key, m.Type, "unknown metric type")
	}
	if _, dup := c.byKey[m.Key]; dup {
		return schema.Preconditionf("", m.Key, nil, "metric declared twice")
	}
	if m.ID == 0 {
		m.ID = c.maxID + 1
	}
	c.maxID = max(c.maxID, m.ID)
	if m.Name == "" {
		m.Name = m.Key
	}
	c.byKey[m.Key] = m
	return nil
}

// Get returns the metric with the given key.
func (c *Catalog) Get(key string) (schema.Metric, bool) {
	m, ok := c.byKey[key]
	return m, ok
}

// MustGet returns the metric with the given key or a precondition error naming it.
func (c *Catalog) MustGet(key string) (schema.Metric, error) {
	m, ok := c.byKey[key]
	if !ok {
		return schema.Metric{}, schema.Preconditionf("", key, nil, "unknown metric")
	}
	return m, nil
}

// Len returns the number of metrics.
func (c *Catalog) Len() int {
	return len(c.byKey)
}

// All returns every metric ordered by domain, then key.
func (c *Catalog) All() []schema.Metric {
	out := make([]schema.Metric, 0, len(c.byKey))
	for _, m := range c.byKey {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b schema.Metric) int {
		return cmp.Or(cmp.Compare(a.Domain, b.Domain), cmp.Compare(a.Key, b.Key))
	})
	return out
}
