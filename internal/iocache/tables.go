package iocache

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gauge/schema"
)

// Table names for the measure archive.
const (
	snapshotsTable  = "gauge_snapshots"
	componentsTable = "gauge_components"
	measuresTable   = "gauge_measures"
)

// analysisTables lists every archive table, in creation order.
var analysisTables = []string{snapshotsTable, componentsTable, measuresTable}

var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName ensures the table name only contains safe characters.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNameRe.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// rebind rewrites ? placeholders into $n ones for PostgreSQL.
func rebind(query string, backend schema.DatabaseBackend) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t
	}
}

// formatNullTime is formatTime for optional columns.
func formatNullTime(t *time.Time, backend schema.DatabaseBackend) any {
	if t == nil {
		return nil
	}
	return formatTime(*t, backend)
}

// dbTime scans a time column stored natively or as an RFC3339 string (SQLite).
type dbTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (d *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		d.Time, d.Valid = time.Time{}, false
		return nil
	case time.Time:
		d.Time, d.Valid = v, true
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("unsupported time column type %T", src)
	}
}

func (d *dbTime) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		// MySQL without parseTime=true
		t, err = time.Parse("2006-01-02 15:04:05.999999", s)
		if err != nil {
			return fmt.Errorf("failed to parse time %q: %w", s, err)
		}
	}
	d.Time, d.Valid = t, true
	return nil
}

// Ptr returns nil for NULL columns.
func (d dbTime) Ptr() *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

var _ driver.Valuer = dbBool(false)

// dbBool writes booleans as 0/1 so the same statement works on every backend.
type dbBool bool

// Value implements driver.Valuer.
func (b dbBool) Value() (driver.Value, error) {
	if b {
		return int64(1), nil
	}
	return int64(0), nil
}

// getCreateSnapshotsQuery returns the CREATE TABLE query for gauge_snapshots.
func getCreateSnapshotsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(snapshotsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				project_uuid VARCHAR(40) NOT NULL,
				project_key VARCHAR(400) NOT NULL,
				version VARCHAR(100),
				analysis_date DATETIME(6) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_components INT NOT NULL,
				status VARCHAR(4) NOT NULL,
				is_last SMALLINT NOT NULL,
				fingerprint VARCHAR(64),
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id BIGSERIAL PRIMARY KEY,
				project_uuid TEXT NOT NULL,
				project_key TEXT NOT NULL,
				version TEXT,
				analysis_date TIMESTAMPTZ NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_components INT NOT NULL,
				status TEXT NOT NULL,
				is_last SMALLINT NOT NULL,
				fingerprint TEXT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id INTEGER PRIMARY KEY AUTOINCREMENT,
				project_uuid TEXT NOT NULL,
				project_key TEXT NOT NULL,
				version TEXT,
				analysis_date TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_components INTEGER NOT NULL,
				status TEXT NOT NULL,
				is_last INTEGER NOT NULL,
				fingerprint TEXT,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateComponentsQuery returns the CREATE TABLE query for gauge_components.
func getCreateComponentsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(componentsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				project_key VARCHAR(255) NOT NULL,
				component_key VARCHAR(400) NOT NULL,
				uuid VARCHAR(40) NOT NULL,
				PRIMARY KEY (project_key, component_key)
			);
		`, quotedTableName)

	default: // SQLite and PostgreSQL
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				project_key TEXT NOT NULL,
				component_key TEXT NOT NULL,
				uuid TEXT NOT NULL,
				PRIMARY KEY (project_key, component_key)
			);
		`, quotedTableName)
	}
}

// getCreateMeasuresQuery returns the CREATE TABLE query for gauge_measures.
func getCreateMeasuresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(measuresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id BIGINT NOT NULL,
				component_uuid VARCHAR(40) NOT NULL,
				metric_key VARCHAR(64) NOT NULL,
				rule_id BIGINT NOT NULL,
				characteristic_id BIGINT NOT NULL,
				developer_id VARCHAR(255) NOT NULL,
				value DOUBLE,
				text_value TEXT,
				measure_data BLOB,
				alert_status VARCHAR(8),
				alert_text TEXT,
				variation_value_1 DOUBLE,
				variation_value_2 DOUBLE,
				variation_value_3 DOUBLE,
				variation_value_4 DOUBLE,
				variation_value_5 DOUBLE,
				PRIMARY KEY (snapshot_id, component_uuid, metric_key, rule_id, characteristic_id, developer_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id BIGINT NOT NULL,
				component_uuid TEXT NOT NULL,
				metric_key TEXT NOT NULL,
				rule_id BIGINT NOT NULL,
				characteristic_id BIGINT NOT NULL,
				developer_id TEXT NOT NULL,
				value DOUBLE PRECISION,
				text_value TEXT,
				measure_data BYTEA,
				alert_status TEXT,
				alert_text TEXT,
				variation_value_1 DOUBLE PRECISION,
				variation_value_2 DOUBLE PRECISION,
				variation_value_3 DOUBLE PRECISION,
				variation_value_4 DOUBLE PRECISION,
				variation_value_5 DOUBLE PRECISION,
				PRIMARY KEY (snapshot_id, component_uuid, metric_key, rule_id, characteristic_id, developer_id)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id INTEGER NOT NULL,
				component_uuid TEXT NOT NULL,
				metric_key TEXT NOT NULL,
				rule_id INTEGER NOT NULL,
				characteristic_id INTEGER NOT NULL,
				developer_id TEXT NOT NULL,
				value REAL,
				text_value TEXT,
				measure_data BLOB,
				alert_status TEXT,
				alert_text TEXT,
				variation_value_1 REAL,
				variation_value_2 REAL,
				variation_value_3 REAL,
				variation_value_4 REAL,
				variation_value_5 REAL,
				PRIMARY KEY (snapshot_id, component_uuid, metric_key, rule_id, characteristic_id, developer_id)
			);
		`, quotedTableName)
	}
}
