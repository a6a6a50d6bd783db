// Package profile loads the analysis profile: the quality gate, the maintainability rating
// parameters, custom metrics and the DSM threshold.
package profile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/huangsam/gauge/core/agg"
	"github.com/huangsam/gauge/core/metric"
	"github.com/huangsam/gauge/schema"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Profile holds every analysis setting that is not a command line flag.
type Profile struct {
	Gate    *GateConfig    `koanf:"gate"`
	Rating  RatingConfig   `koanf:"rating"`
	Metrics []MetricConfig `koanf:"metrics"`
	DSM     DSMConfig      `koanf:"dsm"`
}

// GateConfig is the quality gate as written in the profile.
type GateConfig struct {
	Name       string            `koanf:"name"`
	Conditions []ConditionConfig `koanf:"conditions"`
}

// ConditionConfig is one quality gate condition.
type ConditionConfig struct {
	Metric  string `koanf:"metric"`
	Op      string `koanf:"op"`
	Error   string `koanf:"error"`
	Warning string `koanf:"warning"`
	Period  int    `koanf:"period"`
}

// RatingConfig controls the maintainability rating.
type RatingConfig struct {
	DefaultUnitCost float64            `koanf:"default_unit_cost"`
	UnitCosts       map[string]float64 `koanf:"unit_costs"` // per language
	Grid            []float64          `koanf:"grid"`       // empty keeps the default grid
}

// MetricConfig declares a custom metric.
type MetricConfig struct {
	Key                string   `koanf:"key"`
	Name               string   `koanf:"name"`
	Domain             string   `koanf:"domain"`
	Type               string   `koanf:"type"`
	Direction          int      `koanf:"direction"`
	BestValue          *float64 `koanf:"best_value"`
	OptimizedBestValue bool     `koanf:"optimized_best_value"`
	DeltaOnly          bool     `koanf:"delta_only"`
	Hidden             bool     `koanf:"hidden"`
}

// DSMConfig controls the dependency matrix.
type DSMConfig struct {
	Threshold int `koanf:"threshold"`
}

// Default returns the built-in profile: no quality gate, the default rating grid and cost.
func Default() *Profile {
	return &Profile{
		Rating: RatingConfig{
			DefaultUnitCost: agg.DefaultUnitCost,
		},
	}
}

// Load reads a profile from a toml, yaml or json file chosen by extension, toml otherwise.
// Missing keys keep their default.
func Load(path string) (*Profile, error) {
	k := koanf.New(".")
	p := Default()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", path, err)
	}
	if err := k.Unmarshal("", p); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadOrDefault loads path, or returns the default profile when path is empty.
func LoadOrDefault(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the parts of the profile that do not need the catalog.
func (p *Profile) Validate() error {
	if len(p.Rating.Grid) > 0 && len(p.Rating.Grid) != len(agg.DefaultGrid) {
		return fmt.Errorf("rating grid must have %d thresholds, got %d", len(agg.DefaultGrid), len(p.Rating.Grid))
	}
	for i := 1; i < len(p.Rating.Grid); i++ {
		if p.Rating.Grid[i] < p.Rating.Grid[i-1] {
			return fmt.Errorf("rating grid must be ascending: %v", p.Rating.Grid)
		}
	}
	if p.Rating.DefaultUnitCost < 0 {
		return fmt.Errorf("default unit cost cannot be negative: %v", p.Rating.DefaultUnitCost)
	}
	for lang, c := range p.Rating.UnitCosts {
		if c < 0 {
			return fmt.Errorf("unit cost of %s cannot be negative: %v", lang, c)
		}
	}
	if p.DSM.Threshold < 0 {
		return fmt.Errorf("dsm threshold cannot be negative: %d", p.DSM.Threshold)
	}
	return nil
}

// Catalog returns the built-in catalog extended with the custom metrics.
func (p *Profile) Catalog() (*metric.Catalog, error) {
	c := metric.Default()
	for _, m := range p.Metrics {
		err := c.Add(schema.Metric{
			Key:                m.Key,
			Name:               m.Name,
			Domain:             m.Domain,
			Type:               schema.MetricType(strings.ToUpper(m.Type)),
			Direction:          m.Direction,
			BestValue:          m.BestValue,
			OptimizedBestValue: m.OptimizedBestValue,
			DeltaOnly:          m.DeltaOnly,
			Hidden:             m.Hidden,
		})
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// QualityGate converts the gate section, checking every condition against catalog.
// It returns nil when the profile has no gate.
func (p *Profile) QualityGate(catalog *metric.Catalog) (*schema.QualityGate, error) {
	if p.Gate == nil || len(p.Gate.Conditions) == 0 {
		return nil, nil
	}
	gate := &schema.QualityGate{Name: p.Gate.Name}
	if gate.Name == "" {
		gate.Name = "default"
	}
	for _, c := range p.Gate.Conditions {
		if _, err := catalog.MustGet(c.Metric); err != nil {
			return nil, err
		}
		op := schema.Operator(strings.ToUpper(c.Op))
		if _, ok := schema.ValidOperators[op]; !ok {
			return nil, schema.Preconditionf("", c.Metric, c.Op, "unknown condition operator")
		}
		if c.Period < 0 || c.Period > schema.MaxPeriods {
			return nil, schema.Preconditionf("", c.Metric, c.Period, "condition period must be between 0 and %d", schema.MaxPeriods)
		}
		if c.Error == "" && c.Warning == "" {
			return nil, schema.Preconditionf("", c.Metric, nil, "condition has neither error nor warning threshold")
		}
		gate.Conditions = append(gate.Conditions, schema.Condition{
			Metric:   c.Metric,
			Operator: op,
			Error:    c.Error,
			Warning:  c.Warning,
			Period:   c.Period,
		})
	}
	return gate, nil
}

// RatingModel returns the default rating model with the profile costs and grid.
func (p *Profile) RatingModel() *agg.RatingModel {
	m := agg.DefaultRatingModel()
	m.DefaultUnitCost = p.Rating.DefaultUnitCost
	m.UnitCosts = p.Rating.UnitCosts
	if len(p.Rating.Grid) == len(m.Grid) {
		copy(m.Grid[:], p.Rating.Grid)
	}
	return m
}

// DSMThreshold returns the profile threshold, or fallback when the profile leaves it unset.
func (p *Profile) DSMThreshold(fallback int) int {
	if p.DSM.Threshold > 0 {
		return p.DSM.Threshold
	}
	return fallback
}
