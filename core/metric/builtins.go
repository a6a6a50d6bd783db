package metric

import "github.com/huangsam/gauge/schema"

// Metric domains used to group the catalog.
const (
	DomainSize            = "Size"
	DomainDocumentation   = "Documentation"
	DomainDuplications    = "Duplications"
	DomainCoverage        = "Coverage"
	DomainTests           = "Tests"
	DomainIssues          = "Issues"
	DomainMaintainability = "Maintainability"
	DomainDesign          = "Design"
	DomainReleasability   = "Releasability"
)

func best(v float64) *float64 {
	return &v
}

func builtins() []schema.Metric {
	return []schema.Metric{
		// Size
		{Key: Lines, Name: "Lines", Domain: DomainSize, Type: schema.IntMetric, Direction: -1},
		{Key: NCLoc, Name: "Lines of Code", Domain: DomainSize, Type: schema.IntMetric, Direction: -1},
		{Key: CommentLines, Name: "Comment Lines", Domain: DomainSize, Type: schema.IntMetric, Direction: 1},
		{Key: Files, Name: "Files", Domain: DomainSize, Type: schema.IntMetric, Direction: -1},
		{Key: Directories, Name: "Directories", Domain: DomainSize, Type: schema.IntMetric, Direction: -1},
		{Key: Classes, Name: "Classes", Domain: DomainSize, Type: schema.IntMetric, Direction: -1},
		{Key: Functions, Name: "Functions", Domain: DomainSize, Type: schema.IntMetric, Direction: -1},
		{Key: Statements, Name: "Statements", Domain: DomainSize, Type: schema.IntMetric, Direction: -1},
		{Key: Complexity, Name: "Complexity", Domain: DomainSize, Type: schema.IntMetric, Direction: -1},

		// Documentation
		{Key: CommentLinesDensity, Name: "Comments (%)", Domain: DomainDocumentation, Type: schema.PercentMetric, Direction: 1, BestValue: best(100)},
		{Key: PublicAPI, Name: "Public API", Domain: DomainDocumentation, Type: schema.IntMetric, Direction: -1},
		{Key: PublicUndocumentedAPI, Name: "Public Undocumented API", Domain: DomainDocumentation, Type: schema.IntMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},
		{Key: PublicDocumentedAPIDensity, Name: "Public Documented API (%)", Domain: DomainDocumentation, Type: schema.PercentMetric, Direction: 1, BestValue: best(100), OptimizedBestValue: true},

		// Duplications
		{Key: DuplicatedBlocks, Name: "Duplicated Blocks", Domain: DomainDuplications, Type: schema.IntMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},
		{Key: DuplicatedLines, Name: "Duplicated Lines", Domain: DomainDuplications, Type: schema.IntMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},
		{Key: DuplicatedFiles, Name: "Duplicated Files", Domain: DomainDuplications, Type: schema.IntMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},
		{Key: DuplicatedLinesDensity, Name: "Duplicated Lines (%)", Domain: DomainDuplications, Type: schema.PercentMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},

		// Coverage
		{Key: LinesToCover, Name: "Lines to Cover", Domain: DomainCoverage, Type: schema.IntMetric, Direction: -1},
		{Key: UncoveredLines, Name: "Uncovered Lines", Domain: DomainCoverage, Type: schema.IntMetric, Direction: -1, BestValue: best(0)},
		{Key: Coverage, Name: "Coverage", Domain: DomainCoverage, Type: schema.PercentMetric, Direction: 1, BestValue: best(100)},
		{Key: ConditionsToCover, Name: "Conditions to Cover", Domain: DomainCoverage, Type: schema.IntMetric, Direction: -1},
		{Key: UncoveredConditions, Name: "Uncovered Conditions", Domain: DomainCoverage, Type: schema.IntMetric, Direction: -1, BestValue: best(0)},
		{Key: BranchCoverage, Name: "Condition Coverage", Domain: DomainCoverage, Type: schema.PercentMetric, Direction: 1, BestValue: best(100)},

		// Tests
		{Key: Tests, Name: "Unit Tests", Domain: DomainTests, Type: schema.IntMetric, Direction: 1},
		{Key: TestErrors, Name: "Unit Test Errors", Domain: DomainTests, Type: schema.IntMetric, Direction: -1, BestValue: best(0)},
		{Key: TestFailures, Name: "Unit Test Failures", Domain: DomainTests, Type: schema.IntMetric, Direction: -1, BestValue: best(0)},
		{Key: SkippedTests, Name: "Skipped Unit Tests", Domain: DomainTests, Type: schema.IntMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},
		{Key: TestSuccessDensity, Name: "Unit Test Success (%)", Domain: DomainTests, Type: schema.PercentMetric, Direction: 1, BestValue: best(100)},

		// Issues
		{Key: Violations, Name: "Issues", Domain: DomainIssues, Type: schema.IntMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},
		{Key: BlockerViolations, Name: "Blocker Issues", Domain: DomainIssues, Type: schema.IntMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},
		{Key: CriticalViolations, Name: "Critical Issues", Domain: DomainIssues, Type: schema.IntMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},
		{Key: MajorViolations, Name: "Major Issues", Domain: DomainIssues, Type: schema.IntMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},
		{Key: MinorViolations, Name: "Minor Issues", Domain: DomainIssues, Type: schema.IntMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},
		{Key: InfoViolations, Name: "Info Issues", Domain: DomainIssues, Type: schema.IntMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},

		// Maintainability
		{Key: TechnicalDebt, Name: "Technical Debt", Domain: DomainMaintainability, Type: schema.WorkDurMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},
		{Key: DevelopmentCost, Name: "Development Cost", Domain: DomainMaintainability, Type: schema.FloatMetric, Direction: -1, Hidden: true},
		{Key: DebtRatio, Name: "Technical Debt Ratio", Domain: DomainMaintainability, Type: schema.PercentMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},
		{Key: Rating, Name: "Maintainability Rating", Domain: DomainMaintainability, Type: schema.RatingMetric, Direction: -1, BestValue: best(1), OptimizedBestValue: true},

		// New code
		{Key: NewLines, Name: "Lines on New Code", Domain: DomainSize, Type: schema.IntMetric, Direction: -1, DeltaOnly: true},
		{Key: NewLinesToCover, Name: "Lines to Cover on New Code", Domain: DomainCoverage, Type: schema.IntMetric, Direction: -1, DeltaOnly: true},
		{Key: NewUncoveredLines, Name: "Uncovered Lines on New Code", Domain: DomainCoverage, Type: schema.IntMetric, Direction: -1, DeltaOnly: true},
		{Key: NewCoverage, Name: "Coverage on New Code", Domain: DomainCoverage, Type: schema.PercentMetric, Direction: 1, DeltaOnly: true},

		// Design
		{Key: DSM, Name: "Dependency Matrix", Domain: DomainDesign, Type: schema.DataMetric, Hidden: true},
		{Key: DependencyCycles, Name: "Dependency Cycles", Domain: DomainDesign, Type: schema.IntMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},
		{Key: TangledComponents, Name: "Tangled Components", Domain: DomainDesign, Type: schema.IntMetric, Direction: -1, BestValue: best(0), OptimizedBestValue: true},

		// Quality gate
		{Key: AlertStatus, Name: "Quality Gate Status", Domain: DomainReleasability, Type: schema.LevelMetric, Direction: 1},
		{Key: QualityGateDetails, Name: "Quality Gate Details", Domain: DomainReleasability, Type: schema.DataMetric, Hidden: true},
	}
}
