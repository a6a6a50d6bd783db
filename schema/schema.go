// Package schema holds the plain data types shared by the core and the internal packages.
package schema

import "time"

// Metric is the definition of one measurable quantity.
type Metric struct {
	ID                 int        `json:"id"`
	Key                string     `json:"key"`
	Name               string     `json:"name"`
	Domain             string     `json:"domain,omitempty"`
	Type               MetricType `json:"type"`
	Direction          int        `json:"direction"` // -1 when growth is bad, 1 when growth is good
	BestValue          *float64   `json:"best_value,omitempty"`
	OptimizedBestValue bool       `json:"optimized_best_value,omitempty"`
	DeltaOnly          bool       `json:"delta_only,omitempty"` // value lives in variations only
	Hidden             bool       `json:"hidden,omitempty"`
}

// Period is a historical comparison point bound to a past snapshot.
type Period struct {
	Index         int        `json:"index"`
	Mode          PeriodMode `json:"mode"`
	ModeParameter string     `json:"mode_parameter,omitempty"`
	SnapshotDate  time.Time  `json:"snapshot_date"`
	SnapshotID    int64      `json:"snapshot_id"`
}

// PeriodSetting is the unresolved form of a period as configured by the user.
type PeriodSetting struct {
	Index     int        `json:"index"`
	Mode      PeriodMode `json:"mode"`
	Parameter string     `json:"parameter,omitempty"`
}

// QualityGate is a named set of conditions evaluated against the root measures.
type QualityGate struct {
	Name       string      `json:"name"`
	Conditions []Condition `json:"conditions"`
}

// Condition compares one metric against optional error and warning thresholds.
// Empty thresholds are absent. A non-zero Period compares that period's variation.
type Condition struct {
	Metric   string   `json:"metric"`
	Operator Operator `json:"op"`
	Error    string   `json:"error,omitempty"`
	Warning  string   `json:"warning,omitempty"`
	Period   int      `json:"period,omitempty"`
}

// Dependency is a directed weighted edge between two components, addressed by ref.
type Dependency struct {
	From   int `json:"from"`
	To     int `json:"to"`
	Weight int `json:"weight"`
}

// Rollup is a dependency between two sibling components accumulated from the edges of their
// descendants. Offset is the forward distance between both entries in the DSM order.
type Rollup struct {
	From   int `json:"from"`
	To     int `json:"to"`
	Weight int `json:"weight"`
	Offset int `json:"offset"`
}

// DsmData is the upper-triangular dependency matrix of the children of one node.
type DsmData struct {
	Rows []DsmRow `json:"rows"`
}

// DsmRow is one entry of the ordered DSM list with the cells that start from it.
type DsmRow struct {
	UUID  string    `json:"uuid"`
	Cells []DsmCell `json:"cells,omitempty"`
}

// DsmCell points from its row to the entry Offset positions further in the list.
type DsmCell struct {
	Weight int `json:"weight"`
	Offset int `json:"offset"`
}

// UUIDs returns the ordered component identifiers of the matrix.
func (d DsmData) UUIDs() []string {
	uuids := make([]string, len(d.Rows))
	for i, r := range d.Rows {
		uuids[i] = r.UUID
	}
	return uuids
}
