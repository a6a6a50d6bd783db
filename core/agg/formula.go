// Package agg rolls measures up the component tree.
//
// Every aggregation is described by a Formula, a closed tagged variant selected by Kind, and
// evaluated by the single post-order walker in Aggregate. Children are always fully resolved
// before their parent.
package agg

import (
	"slices"

	"github.com/huangsam/gauge/core/metric"
	"github.com/huangsam/gauge/schema"
)

// Kind selects how a formula combines child values.
type Kind int

const (
	// Sum adds child values. Leaves keep their raw value.
	Sum Kind = iota

	// DensityRatio sums a numerator and a denominator independently, then divides them.
	DensityRatio

	// WeightedRating sums a language-weighted cost and rates the debt against it.
	WeightedRating
)

func (k Kind) String() string {
	switch k {
	case Sum:
		return "SUM"
	case DensityRatio:
		return "DENSITY_RATIO"
	case WeightedRating:
		return "WEIGHTED_RATING"
	default:
		return "UNKNOWN"
	}
}

// Formula describes one aggregated metric.
type Formula struct {
	Kind   Kind
	Metric string // output metric

	// Inputs are the summed source metrics: the summed metric for Sum (Metric when empty)
	// and the numerator metrics for DensityRatio.
	Inputs []string

	// Denominator metrics are summed per leaf. DenominatorFallback is summed instead on leaves
	// that carry none of them.
	Denominator         []string
	DenominatorFallback []string

	// Complement divides (denominator - numerator) instead of the numerator.
	Complement bool

	// Scale multiplies the ratio. Zero means 100.
	Scale float64

	// DefaultZero writes 0 on nodes where no descendant contributed.
	DefaultZero bool

	// SkipUnitTests ignores unit test files.
	SkipUnitTests bool

	// Exclude lists component types that never receive the output measure.
	Exclude []schema.ComponentType

	// OnVariations aggregates the period slots instead of the values.
	OnVariations bool

	// Rating configures WeightedRating formulas.
	Rating *RatingModel
}

func (f Formula) inputs() []string {
	if len(f.Inputs) == 0 {
		return []string{f.Metric}
	}
	return f.Inputs
}

func (f Formula) scale() float64 {
	if f.Scale == 0 {
		return 100
	}
	return f.Scale
}

func (f Formula) excludes(t schema.ComponentType) bool {
	return slices.Contains(f.Exclude, t)
}

// RatingModel holds the parameters of a WeightedRating formula.
type RatingModel struct {
	SizeMetric      string
	DebtMetric      string
	CostMetric      string
	RatioMetric     string
	UnitCosts       map[string]float64 // per language, in debt units per size unit
	DefaultUnitCost float64
	Grid            [5]float64 // ascending debt ratio thresholds, Grid[0] is A
}

// DefaultGrid is the debt ratio grid of ratings A to E.
var DefaultGrid = [5]float64{0, 0.05, 0.1, 0.2, 0.5}

// DefaultUnitCost is the development cost of one line of code, in minutes.
const DefaultUnitCost = 30.0

// DefaultRatingModel rates sqale_index against ncloc based development cost.
func DefaultRatingModel() *RatingModel {
	return &RatingModel{
		SizeMetric:      metric.NCLoc,
		DebtMetric:      metric.TechnicalDebt,
		CostMetric:      metric.DevelopmentCost,
		RatioMetric:     metric.DebtRatio,
		DefaultUnitCost: DefaultUnitCost,
		Grid:            DefaultGrid,
	}
}

func (r *RatingModel) unitCost(language string) float64 {
	if c, ok := r.UnitCosts[language]; ok {
		return c
	}
	return r.DefaultUnitCost
}

// Rate maps a debt ratio to a rating from 1 (A) to 5 (E).
func (r *RatingModel) Rate(ratio float64) int {
	rating := 1
	for i, threshold := range r.Grid {
		if ratio >= threshold {
			rating = i + 1
		}
	}
	return rating
}

// RatingLetter returns the letter of a rating, A for 1 to E for 5.
func RatingLetter(rating int) string {
	if rating < 1 || rating > 5 {
		return "?"
	}
	return string(rune('A' + rating - 1))
}

// DefaultFormulas returns the size, documentation, duplication, coverage, test, issue and
// maintainability formulas in evaluation order.
func DefaultFormulas() []Formula {
	sum := func(key string) Formula { return Formula{Kind: Sum, Metric: key} }
	coverageSum := func(key string) Formula { return Formula{Kind: Sum, Metric: key, SkipUnitTests: true} }
	lines := []string{metric.Lines}
	codeAndComments := []string{metric.NCLoc, metric.CommentLines}

	return []Formula{
		// Size
		sum(metric.Lines),
		sum(metric.NCLoc),
		sum(metric.CommentLines),
		sum(metric.Classes),
		sum(metric.Functions),
		sum(metric.Statements),
		sum(metric.Complexity),

		// Documentation
		{Kind: DensityRatio, Metric: metric.CommentLinesDensity, Inputs: []string{metric.CommentLines}, Denominator: codeAndComments},
		sum(metric.PublicAPI),
		sum(metric.PublicUndocumentedAPI),
		{Kind: DensityRatio, Metric: metric.PublicDocumentedAPIDensity, Inputs: []string{metric.PublicUndocumentedAPI}, Denominator: []string{metric.PublicAPI}, Complement: true},

		// Duplications
		sum(metric.DuplicatedBlocks),
		sum(metric.DuplicatedLines),
		sum(metric.DuplicatedFiles),
		{Kind: DensityRatio, Metric: metric.DuplicatedLinesDensity, Inputs: []string{metric.DuplicatedLines}, Denominator: lines, DenominatorFallback: codeAndComments},

		// Coverage
		coverageSum(metric.LinesToCover),
		coverageSum(metric.UncoveredLines),
		coverageSum(metric.ConditionsToCover),
		coverageSum(metric.UncoveredConditions),
		{Kind: DensityRatio, Metric: metric.Coverage, Inputs: []string{metric.UncoveredLines}, Denominator: []string{metric.LinesToCover}, Complement: true, SkipUnitTests: true},
		{Kind: DensityRatio, Metric: metric.BranchCoverage, Inputs: []string{metric.UncoveredConditions}, Denominator: []string{metric.ConditionsToCover}, Complement: true, SkipUnitTests: true},

		// Tests
		sum(metric.Tests),
		sum(metric.TestErrors),
		sum(metric.TestFailures),
		sum(metric.SkippedTests),
		{Kind: DensityRatio, Metric: metric.TestSuccessDensity, Inputs: []string{metric.TestErrors, metric.TestFailures}, Denominator: []string{metric.Tests}, Complement: true},

		// Issues
		sum(metric.Violations),
		sum(metric.BlockerViolations),
		sum(metric.CriticalViolations),
		sum(metric.MajorViolations),
		sum(metric.MinorViolations),
		sum(metric.InfoViolations),

		// Maintainability
		sum(metric.TechnicalDebt),
		{Kind: WeightedRating, Metric: metric.Rating, Rating: DefaultRatingModel()},
	}
}
