package schema

// Custom string types for type safety.
type (
	// ComponentType represents the kind of node in the component tree.
	ComponentType string

	// MetricType represents the value type of a metric.
	MetricType string

	// Level represents a quality gate level.
	Level string

	// Operator represents a quality gate condition operator.
	Operator string

	// PeriodMode represents how a period is bound to a past snapshot.
	PeriodMode string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the analysis store.
	DatabaseBackend string
)

// Source-tree component types.
const (
	ProjectComponent   ComponentType = "PROJECT"
	ModuleComponent    ComponentType = "MODULE"
	DirectoryComponent ComponentType = "DIRECTORY"
	FileComponent      ComponentType = "FILE"
)

// Cross-project view component types.
const (
	ViewComponent        ComponentType = "VIEW"
	SubviewComponent     ComponentType = "SUBVIEW"
	ProjectViewComponent ComponentType = "PROJECT_VIEW"
)

// All metric value types supported.
const (
	IntMetric     MetricType = "INT"
	FloatMetric   MetricType = "FLOAT"
	PercentMetric MetricType = "PERCENT"
	WorkDurMetric MetricType = "WORK_DUR" // minutes, stored as a long
	BoolMetric    MetricType = "BOOL"
	StringMetric  MetricType = "STRING"
	DataMetric    MetricType = "DATA" // opaque bytes
	LevelMetric   MetricType = "LEVEL"
	RatingMetric  MetricType = "RATING" // 1 (A) to 5 (E)
)

// All quality gate levels, from best to worst.
const (
	OKLevel    Level = "OK"
	WarnLevel  Level = "WARN"
	ErrorLevel Level = "ERROR"
)

// All condition operators supported.
const (
	EqualsOp      Operator = "EQ"
	NotEqualsOp   Operator = "NE"
	GreaterThanOp Operator = "GT"
	LessThanOp    Operator = "LT"
)

// All period modes supported.
const (
	DateMode             PeriodMode = "date"
	DaysMode             PeriodMode = "days"
	PreviousAnalysisMode PeriodMode = "previous_analysis"
	PreviousVersionMode  PeriodMode = "previous_version"
	VersionMode          PeriodMode = "version"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	TOONOut    OutputMode = "toon"
	ParquetOut OutputMode = "parquet"
)

// All analysis backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// MaxPeriods is the number of variation slots carried by a measure.
const MaxPeriods = 5

// ValidComponentTypes lists all valid component types.
var ValidComponentTypes = map[ComponentType]struct{}{
	ProjectComponent:     {},
	ModuleComponent:      {},
	DirectoryComponent:   {},
	FileComponent:        {},
	ViewComponent:        {},
	SubviewComponent:     {},
	ProjectViewComponent: {},
}

// ValidMetricTypes lists all valid metric types.
var ValidMetricTypes = map[MetricType]struct{}{
	IntMetric:     {},
	FloatMetric:   {},
	PercentMetric: {},
	WorkDurMetric: {},
	BoolMetric:    {},
	StringMetric:  {},
	DataMetric:    {},
	LevelMetric:   {},
	RatingMetric:  {},
}

// ValidOperators lists all valid condition operators.
var ValidOperators = map[Operator]struct{}{
	EqualsOp:      {},
	NotEqualsOp:   {},
	GreaterThanOp: {},
	LessThanOp:    {},
}

// ValidPeriodModes lists all valid period modes.
var ValidPeriodModes = map[PeriodMode]struct{}{
	DateMode:             {},
	DaysMode:             {},
	PreviousAnalysisMode: {},
	PreviousVersionMode:  {},
	VersionMode:          {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	TOONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// IsViewFamily reports whether the type belongs to the cross-project view hierarchy.
func (t ComponentType) IsViewFamily() bool {
	return t == ViewComponent || t == SubviewComponent || t == ProjectViewComponent
}

// IsLeaf reports whether the type carries raw measures instead of aggregated ones.
func (t ComponentType) IsLeaf() bool {
	return t == FileComponent || t == ProjectViewComponent
}

// IsRoot reports whether the type can be the root of a tree evaluated by a quality gate.
func (t ComponentType) IsRoot() bool {
	return t == ProjectComponent || t == ViewComponent
}

// IsNumeric reports whether measures of this type hold a number (bool counts as 0/1).
func (t MetricType) IsNumeric() bool {
	switch t {
	case IntMetric, FloatMetric, PercentMetric, WorkDurMetric, BoolMetric, RatingMetric:
		return true
	default:
		return false
	}
}

// Severity orders levels so that the worst one wins.
func (l Level) Severity() int {
	switch l {
	case ErrorLevel:
		return 2
	case WarnLevel:
		return 1
	default:
		return 0
	}
}

// WorstLevel returns the most severe of the given levels, OK when none is given.
func WorstLevel(levels ...Level) Level {
	worst := OKLevel
	for _, l := range levels {
		if l.Severity() > worst.Severity() {
			worst = l
		}
	}
	return worst
}

// Symbol returns the short mathematical form used in alert texts.
func (o Operator) Symbol() string {
	switch o {
	case EqualsOp:
		return "="
	case NotEqualsOp:
		return "!="
	case GreaterThanOp:
		return ">"
	case LessThanOp:
		return "<"
	default:
		return string(o)
	}
}
