// Package period holds the historical comparison points of one analysis run.
package period

import (
	"github.com/huangsam/gauge/schema"
)

// Set holds up to schema.MaxPeriods periods addressed by index. Indices need not be contiguous.
type Set struct {
	slots [schema.MaxPeriods]*schema.Period
}

// NewSet builds a set from the given periods.
func NewSet(periods ...schema.Period) (*Set, error) {
	s := &Set{}
	for _, p := range periods {
		if err := s.Add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add binds a period to its index.
func (s *Set) Add(p schema.Period) error {
	if p.Index < 1 || p.Index > schema.MaxPeriods {
		return schema.Preconditionf("", "", p.Index, "period index must be between 1 and %d", schema.MaxPeriods)
	}
	if s.slots[p.Index-1] != nil {
		return schema.Preconditionf("", "", p.Index, "period index declared twice")
	}
	s.slots[p.Index-1] = &p
	return nil
}

// Get returns the period bound to an index.
func (s *Set) Get(index int) (schema.Period, bool) {
	if s == nil || index < 1 || index > schema.MaxPeriods || s.slots[index-1] == nil {
		return schema.Period{}, false
	}
	return *s.slots[index-1], true
}

// All returns the periods ordered by index.
func (s *Set) All() []schema.Period {
	if s == nil {
		return nil
	}
	var out []schema.Period
	for _, p := range s.slots {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// Len returns the number of bound periods.
func (s *Set) Len() int {
	return len(s.All())
}

// SnapshotIDs returns the distinct snapshot ids the periods point at.
func (s *Set) SnapshotIDs() []int64 {
	seen := map[int64]bool{}
	var ids []int64
	for _, p := range s.All() {
		if !seen[p.SnapshotID] {
			seen[p.SnapshotID] = true
			ids = append(ids, p.SnapshotID)
		}
	}
	return ids
}
