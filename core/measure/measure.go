package measure

import (
	"fmt"

	"github.com/huangsam/gauge/schema"
)

// Variations holds one optional delta per period index, 1 to schema.MaxPeriods.
type Variations struct {
	slots [schema.MaxPeriods]float64
	set   uint8
}

func slot(index int) int {
	if index < 1 || index > schema.MaxPeriods {
		panic(fmt.Sprintf("variation index %d out of range", index))
	}
	return index - 1
}

// Set stores the delta for a period index.
func (v *Variations) Set(index int, delta float64) {
	i := slot(index)
	v.slots[i] = delta
	v.set |= 1 << i
}

// Clear empties the slot of a period index.
func (v *Variations) Clear(index int) {
	i := slot(index)
	v.slots[i] = 0
	v.set &^= 1 << i
}

// Get returns the delta for a period index.
func (v Variations) Get(index int) (float64, bool) {
	i := slot(index)
	return v.slots[i], v.set&(1<<i) != 0
}

// IsEmpty reports whether no slot is set.
func (v Variations) IsEmpty() bool {
	return v.set == 0
}

// Pointers returns the slots with nil for empty ones.
func (v Variations) Pointers() [schema.MaxPeriods]*float64 {
	var out [schema.MaxPeriods]*float64
	for i := range out {
		if v.set&(1<<i) != 0 {
			d := v.slots[i]
			out[i] = &d
		}
	}
	return out
}

// VariationsFrom rebuilds variations from nil-able slots.
func VariationsFrom(p [schema.MaxPeriods]*float64) Variations {
	var v Variations
	for i, d := range p {
		if d != nil {
			v.Set(i+1, *d)
		}
	}
	return v
}

// Scope further qualifies a measure beyond component and metric.
type Scope struct {
	RuleID           int64
	CharacteristicID int64
	DeveloperID      string
}

// IsZero reports whether the scope is the plain component scope.
func (s Scope) IsZero() bool {
	return s == Scope{}
}

// Measure is the value of one metric for one component.
type Measure struct {
	Value       Value
	Variations  Variations
	Text        string
	AlertStatus schema.Level
	Scope       Scope
}

// New returns a measure holding v.
func New(v Value) Measure {
	return Measure{Value: v}
}

// IsAbsent reports whether the measure carries neither a value nor variations.
func (m Measure) IsAbsent() bool {
	return !m.Value.IsSet() && m.Variations.IsEmpty()
}
