package metric

// Size metrics.
const (
	Lines        = "lines"
	NCLoc        = "ncloc"
	CommentLines = "comment_lines"
	Files        = "files"
	Directories  = "directories"
	Classes      = "classes"
	Functions    = "functions"
	Statements   = "statements"
	Complexity   = "complexity"
)

// Documentation metrics.
const (
	CommentLinesDensity        = "comment_lines_density"
	PublicAPI                  = "public_api"
	PublicUndocumentedAPI      = "public_undocumented_api"
	PublicDocumentedAPIDensity = "public_documented_api_density"
)

// Duplication metrics.
const (
	DuplicatedBlocks       = "duplicated_blocks"
	DuplicatedLines        = "duplicated_lines"
	DuplicatedFiles        = "duplicated_files"
	DuplicatedLinesDensity = "duplicated_lines_density"
)

// Coverage metrics.
const (
	LinesToCover        = "lines_to_cover"
	UncoveredLines      = "uncovered_lines"
	Coverage            = "coverage"
	ConditionsToCover   = "conditions_to_cover"
	UncoveredConditions = "uncovered_conditions"
	BranchCoverage      = "branch_coverage"
)

// Test execution metrics.
const (
	Tests              = "tests"
	TestErrors         = "test_errors"
	TestFailures       = "test_failures"
	SkippedTests       = "skipped_tests"
	TestSuccessDensity = "test_success_density"
)

// Issue metrics.
const (
	Violations         = "violations"
	BlockerViolations  = "blocker_violations"
	CriticalViolations = "critical_violations"
	MajorViolations    = "major_violations"
	MinorViolations    = "minor_violations"
	InfoViolations     = "info_violations"
)

// Maintainability metrics.
const (
	TechnicalDebt   = "sqale_index"
	DevelopmentCost = "development_cost"
	DebtRatio       = "sqale_debt_ratio"
	Rating          = "sqale_rating"
)

// New code metrics, valued per period only.
const (
	NewLines          = "new_lines"
	NewLinesToCover   = "new_lines_to_cover"
	NewUncoveredLines = "new_uncovered_lines"
	NewCoverage       = "new_coverage"
)

// Design metrics.
const (
	DSM               = "dsm"
	DependencyCycles  = "dependency_cycles"
	TangledComponents = "tangled_components"
)

// Quality gate metrics.
const (
	AlertStatus        = "alert_status"
	QualityGateDetails = "quality_gate_details"
)
