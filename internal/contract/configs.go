package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/gauge/core/period"
	"github.com/huangsam/gauge/schema"
)

// Default values for configuration.
const (
	DefaultPrecision    = 1
	MaxPrecision        = 4
	DefaultPeriods      = "1:previous_analysis"
	DefaultDSMThreshold = 200
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfilingConfig holds pprof settings.
type ProfilingConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	ReportPaths []string
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool
	Verbose     bool

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext
	Persist           bool

	ProfilePath    string
	Periods        []schema.PeriodSetting
	AnalysisDate   time.Time // zero means the date of the report
	ProjectVersion string    // empty means the version of the report
	DSMThreshold   int
	FailOnWarn     bool

	HistoryProject   string
	HistoryComponent string
	HistoryMetric    string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ReportPaths []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Precision         int    `mapstructure:"precision"`
	Workers           int    `mapstructure:"workers"`
	Width             int    `mapstructure:"width"`
	Color             string `mapstructure:"color"`
	Verbose           bool   `mapstructure:"verbose"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`
	Profile           string `mapstructure:"profile"`

	// --- Fields from analyzeCmd and checkCmd flags ---
	Periods        string `mapstructure:"periods"`
	AnalysisDate   string `mapstructure:"analysis-date"`
	ProjectVersion string `mapstructure:"project-version"`
	DSMThreshold   int    `mapstructure:"dsm-threshold"`
	Persist        string `mapstructure:"persist"`
	FailOnWarn     bool   `mapstructure:"fail-on-warn"`

	// --- Fields from historyCmd.Flags() ---
	Project   string `mapstructure:"project"`
	Component string `mapstructure:"component"`
	Metric    string `mapstructure:"metric"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.ReportPaths != nil {
		clone.ReportPaths = append([]string(nil), c.ReportPaths...)
	}
	if c.Periods != nil {
		clone.Periods = append([]schema.PeriodSetting(nil), c.Periods...)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processPeriods(cfg, input); err != nil {
		return err
	}
	if err := processAnalysisDate(cfg, input, time.Now()); err != nil {
		return err
	}
	processHistory(cfg, input)
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("analysis-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("analysis-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the analysis backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		cfg.AnalysisBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	return ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect)
}

// validateSimpleInputs processes and validates all non-backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.ReportPaths = input.ReportPaths
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.ProfilePath = strings.TrimSpace(input.Profile)
	cfg.ProjectVersion = strings.TrimSpace(input.ProjectVersion)
	cfg.FailOnWarn = input.FailOnWarn

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Persist = true
	if input.Persist != "" {
		persist, err := ParseBoolString(input.Persist)
		if err != nil {
			return fmt.Errorf("invalid --persist value: %w", err)
		}
		cfg.Persist = persist
	}

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, toon, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. DSM threshold ---
	cfg.DSMThreshold = input.DSMThreshold
	if cfg.DSMThreshold == 0 {
		cfg.DSMThreshold = DefaultDSMThreshold
	}
	if cfg.DSMThreshold < 0 {
		return fmt.Errorf("dsm-threshold must be positive (received %d)", input.DSMThreshold)
	}

	return nil
}

// processPeriods parses the comma separated period settings, e.g. "1:previous_analysis,3:days:30".
func processPeriods(cfg *Config, input *ConfigRawInput) error {
	cfg.Periods = nil
	seen := map[int]struct{}{}
	for part := range strings.SplitSeq(input.Periods, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		setting, err := period.ParseSetting(part)
		if err != nil {
			return fmt.Errorf("invalid --periods value: %w", err)
		}
		if _, dup := seen[setting.Index]; dup {
			return fmt.Errorf("invalid --periods value: period %d declared twice", setting.Index)
		}
		seen[setting.Index] = struct{}{}
		cfg.Periods = append(cfg.Periods, setting)
	}
	if len(cfg.Periods) > schema.MaxPeriods {
		return fmt.Errorf("at most %d periods can be configured (received %d)", schema.MaxPeriods, len(cfg.Periods))
	}
	return nil
}

// processAnalysisDate accepts an absolute RFC3339 time, a YYYY-MM-DD date or "N [units] ago".
func processAnalysisDate(cfg *Config, input *ConfigRawInput, now time.Time) error {
	cfg.AnalysisDate = time.Time{}
	raw := strings.TrimSpace(input.AnalysisDate)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(DateTimeFormat, raw); err == nil {
		cfg.AnalysisDate = t
		return nil
	}
	if t, err := time.Parse(period.DateLayout, raw); err == nil {
		cfg.AnalysisDate = t
		return nil
	}
	t, err := ParseRelativeTime(raw, now)
	if err != nil {
		return fmt.Errorf("invalid analysis date format for '%s'. Expected ISO8601, YYYY-MM-DD or 'N [units] ago'", raw)
	}
	cfg.AnalysisDate = t
	return nil
}

// processHistory copies the history selectors. The project defaults to the part of the
// component key before the first colon.
func processHistory(cfg *Config, input *ConfigRawInput) {
	cfg.HistoryComponent = strings.TrimSpace(input.Component)
	cfg.HistoryMetric = strings.TrimSpace(input.Metric)
	cfg.HistoryProject = strings.TrimSpace(input.Project)
	if cfg.HistoryProject == "" && cfg.HistoryComponent != "" {
		cfg.HistoryProject, _, _ = strings.Cut(cfg.HistoryComponent, ":")
	}
}

// ProcessProfilingConfig handles the pprof flag and sets up profiling configuration.
func ProcessProfilingConfig(profiling *ProfilingConfig, prefix string) {
	if prefix != "" {
		profiling.Enabled = true
		profiling.Prefix = prefix
	}
}

// RevalidatePeriods replaces the periods of cfg with the ones of a raw "--periods" value.
// It is used by callers that override the command line per request.
func RevalidatePeriods(cfg *Config, raw string) error {
	return processPeriods(cfg, &ConfigRawInput{Periods: raw})
}
