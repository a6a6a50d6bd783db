package iocache

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// measureColumns lists the gauge_measures columns in scan order.
const measureColumns = `snapshot_id, component_uuid, metric_key, rule_id, characteristic_id, developer_id,
	value, text_value, measure_data, alert_status, alert_text,
	variation_value_1, variation_value_2, variation_value_3, variation_value_4, variation_value_5`

// snapshotColumns lists the gauge_snapshots columns in scan order.
const snapshotColumns = `snapshot_id, project_uuid, project_key, version, analysis_date, start_time, end_time,
	run_duration_ms, total_components, status, is_last, fingerprint, config_params`

// AnalysisStoreImpl implements the AnalysisStore interface.
type AnalysisStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetAnalysisDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &AnalysisStoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database server is running and accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	// Create the table schemas
	if err := createAnalysisTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}

	return &AnalysisStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}, nil
}

// createAnalysisTables creates the archive tables.
func createAnalysisTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{snapshotsTable, getCreateSnapshotsQuery(backend)},
		{componentsTable, getCreateComponentsQuery(backend)},
		{measuresTable, getCreateMeasuresQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// disabled reports whether the store is the no-op one.
func (as *AnalysisStoreImpl) disabled() bool {
	return as.backend == schema.NoneBackend || as.db == nil
}

func (as *AnalysisStoreImpl) table(name string) string {
	return quoteTableName(name, as.backend)
}

// Persist records one analysis in a single transaction. Nothing is written when any step fails.
func (as *AnalysisStoreImpl) Persist(ctx context.Context, snapshot schema.SnapshotRecord, uuids []schema.ComponentUUID, measures []schema.MeasureRecord) (int64, error) {
	// Skip for NoneBackend
	if as.disabled() {
		return 0, nil
	}

	tx, err := as.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// 1. Snapshot row, unprocessed until the end of the transaction
	snapshotID, err := as.insertSnapshot(ctx, tx, snapshot)
	if err != nil {
		return 0, err
	}

	// 2. Components seen for the first time
	if len(uuids) > 0 {
		stmt, err := tx.PrepareContext(ctx, rebind(fmt.Sprintf(
			`INSERT INTO %s (project_key, component_key, uuid) VALUES (?, ?, ?)`, as.table(componentsTable)), as.backend))
		if err != nil {
			return 0, fmt.Errorf("failed to prepare component insert: %w", err)
		}
		for _, c := range uuids {
			if _, err := stmt.ExecContext(ctx, c.ProjectKey, c.Key, c.UUID); err != nil {
				_ = stmt.Close()
				return 0, fmt.Errorf("failed to insert component %s: %w", c.Key, err)
			}
		}
		_ = stmt.Close()
	}

	// 3. Measures
	if len(measures) > 0 {
		stmt, err := tx.PrepareContext(ctx, rebind(fmt.Sprintf(
			`INSERT INTO %s (%s) VALUES (%s)`, as.table(measuresTable), measureColumns, placeholders(16)), as.backend))
		if err != nil {
			return 0, fmt.Errorf("failed to prepare measure insert: %w", err)
		}
		for _, m := range measures {
			args := []any{
				snapshotID, m.ComponentUUID, m.MetricKey, m.RuleID, m.CharacteristicID, m.DeveloperID,
				m.Value, m.TextValue, encodeBlob(m.Data), m.AlertStatus, m.AlertText,
			}
			for _, v := range m.Variations {
				args = append(args, v)
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				_ = stmt.Close()
				return 0, fmt.Errorf("failed to insert measure %s on %s: %w", m.MetricKey, m.ComponentUUID, err)
			}
		}
		_ = stmt.Close()
	}

	// 4. Switch the last snapshot of the project
	resetQuery := rebind(fmt.Sprintf(`UPDATE %s SET is_last = ? WHERE project_uuid = ? AND is_last = ?`, as.table(snapshotsTable)), as.backend)
	if _, err := tx.ExecContext(ctx, resetQuery, dbBool(false), snapshot.ProjectUUID, dbBool(true)); err != nil {
		return 0, fmt.Errorf("failed to reset last snapshot: %w", err)
	}
	markQuery := rebind(fmt.Sprintf(`UPDATE %s SET is_last = ?, status = ? WHERE snapshot_id = ?`, as.table(snapshotsTable)), as.backend)
	if _, err := tx.ExecContext(ctx, markQuery, dbBool(true), schema.SnapshotProcessed, snapshotID); err != nil {
		return 0, fmt.Errorf("failed to mark snapshot %d as last: %w", snapshotID, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit analysis: %w", err)
	}
	return snapshotID, nil
}

func (as *AnalysisStoreImpl) insertSnapshot(ctx context.Context, tx *sql.Tx, s schema.SnapshotRecord) (int64, error) {
	cols := `project_uuid, project_key, version, analysis_date, start_time, end_time,
		run_duration_ms, total_components, status, is_last, fingerprint, config_params`
	args := []any{
		s.ProjectUUID, s.ProjectKey, s.Version,
		formatTime(s.AnalysisDate, as.backend), formatTime(s.StartTime, as.backend), formatNullTime(s.EndTime, as.backend),
		s.RunDurationMs, s.TotalComponents, schema.SnapshotUnprocessed, dbBool(false), s.Fingerprint, s.ConfigParams,
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, as.table(snapshotsTable), cols, placeholders(len(args)))

	var snapshotID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		err := tx.QueryRowContext(ctx, rebind(query+" RETURNING snapshot_id", as.backend), args...).Scan(&snapshotID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert snapshot: %w", err)
		}
	default: // SQLite and MySQL
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert snapshot: %w", err)
		}
		if snapshotID, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to read snapshot id: %w", err)
		}
	}
	return snapshotID, nil
}

// ComponentUUIDs returns the stored uuids of a project, keyed by component key.
func (as *AnalysisStoreImpl) ComponentUUIDs(ctx context.Context, projectKey string) (map[string]string, error) {
	result := map[string]string{}
	if as.disabled() {
		return result, nil
	}

	query := rebind(fmt.Sprintf(`SELECT component_key, uuid FROM %s WHERE project_key = ?`, as.table(componentsTable)), as.backend)
	rows, err := as.db.QueryContext(ctx, query, projectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query component uuids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key, uuid string
		if err := rows.Scan(&key, &uuid); err != nil {
			return nil, fmt.Errorf("failed to scan component uuid: %w", err)
		}
		result[key] = uuid
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating component uuids: %w", err)
	}
	return result, nil
}

// Snapshots returns every snapshot of a project, oldest first.
func (as *AnalysisStoreImpl) Snapshots(ctx context.Context, projectUUID string) ([]schema.SnapshotRecord, error) {
	if as.disabled() {
		return nil, nil
	}
	query := rebind(fmt.Sprintf(`SELECT %s FROM %s WHERE project_uuid = ? ORDER BY analysis_date, snapshot_id`,
		snapshotColumns, as.table(snapshotsTable)), as.backend)
	return as.querySnapshots(ctx, query, projectUUID)
}

// ArchivedValues returns the numeric values of a component at the given snapshots.
func (as *AnalysisStoreImpl) ArchivedValues(ctx context.Context, componentUUID string, snapshotIDs []int64) (map[int64]map[string]float64, error) {
	result := map[int64]map[string]float64{}
	if as.disabled() || len(snapshotIDs) == 0 {
		return result, nil
	}

	query := rebind(fmt.Sprintf(`SELECT snapshot_id, metric_key, value FROM %s
		WHERE component_uuid = ? AND rule_id = 0 AND characteristic_id = 0 AND developer_id = ''
		AND value IS NOT NULL AND snapshot_id IN (%s)`, as.table(measuresTable), placeholders(len(snapshotIDs))), as.backend)
	args := make([]any, 0, len(snapshotIDs)+1)
	args = append(args, componentUUID)
	for _, id := range snapshotIDs {
		args = append(args, id)
	}

	rows, err := as.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query archived values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var snapshotID int64
		var key string
		var value float64
		if err := rows.Scan(&snapshotID, &key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan archived value: %w", err)
		}
		if result[snapshotID] == nil {
			result[snapshotID] = map[string]float64{}
		}
		result[snapshotID][key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating archived values: %w", err)
	}
	return result, nil
}

// LastMeasures returns the unscoped measures of a component at the last processed snapshot.
func (as *AnalysisStoreImpl) LastMeasures(ctx context.Context, componentUUID string) ([]schema.MeasureRecord, error) {
	if as.disabled() {
		return nil, nil
	}
	cols := prefixColumns(measureColumns, "m")
	query := rebind(fmt.Sprintf(`SELECT %s FROM %s m JOIN %s s ON s.snapshot_id = m.snapshot_id
		WHERE m.component_uuid = ? AND s.is_last = ?
		AND m.rule_id = 0 AND m.characteristic_id = 0 AND m.developer_id = ''`,
		cols, as.table(measuresTable), as.table(snapshotsTable)), as.backend)
	return as.queryMeasures(ctx, query, componentUUID, dbBool(true))
}

// MeasureHistory returns the archived values of one metric for one component, oldest first.
func (as *AnalysisStoreImpl) MeasureHistory(ctx context.Context, componentUUID, metricKey string) ([]schema.HistoryPoint, error) {
	if as.disabled() {
		return nil, nil
	}
	query := rebind(fmt.Sprintf(`SELECT s.snapshot_id, s.analysis_date, s.version, m.value, m.text_value
		FROM %s m JOIN %s s ON s.snapshot_id = m.snapshot_id
		WHERE m.component_uuid = ? AND m.metric_key = ? AND s.status = ?
		AND m.rule_id = 0 AND m.characteristic_id = 0 AND m.developer_id = ''
		ORDER BY s.analysis_date, s.snapshot_id`, as.table(measuresTable), as.table(snapshotsTable)), as.backend)

	rows, err := as.db.QueryContext(ctx, query, componentUUID, metricKey, schema.SnapshotProcessed)
	if err != nil {
		return nil, fmt.Errorf("failed to query measure history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []schema.HistoryPoint
	for rows.Next() {
		var p schema.HistoryPoint
		var date dbTime
		var version sql.NullString
		if err := rows.Scan(&p.SnapshotID, &date, &version, &p.Value, &p.TextValue); err != nil {
			return nil, fmt.Errorf("failed to scan history point: %w", err)
		}
		p.AnalysisDate = date.Time
		p.Version = version.String
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating measure history: %w", err)
	}
	return points, nil
}

// Close closes the underlying DB connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// prefixColumns qualifies every column of a list with a table alias.
func prefixColumns(cols, alias string) string {
	fields := strings.Split(cols, ",")
	for i, f := range fields {
		fields[i] = alias + "." + strings.TrimSpace(f)
	}
	return strings.Join(fields, ", ")
}

func (as *AnalysisStoreImpl) querySnapshots(ctx context.Context, query string, args ...any) ([]schema.SnapshotRecord, error) {
	rows, err := as.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SnapshotRecord
	for rows.Next() {
		var s schema.SnapshotRecord
		var version, fingerprint sql.NullString
		var analysisDate, startTime, endTime dbTime
		if err := rows.Scan(&s.SnapshotID, &s.ProjectUUID, &s.ProjectKey, &version, &analysisDate, &startTime, &endTime,
			&s.RunDurationMs, &s.TotalComponents, &s.Status, &s.IsLast, &fingerprint, &s.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.Version = version.String
		s.Fingerprint = fingerprint.String
		s.AnalysisDate = analysisDate.Time
		s.StartTime = startTime.Time
		s.EndTime = endTime.Ptr()
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return results, nil
}

func (as *AnalysisStoreImpl) queryMeasures(ctx context.Context, query string, args ...any) ([]schema.MeasureRecord, error) {
	rows, err := as.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query measures: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.MeasureRecord
	for rows.Next() {
		var m schema.MeasureRecord
		var data []byte
		dest := []any{
			&m.SnapshotID, &m.ComponentUUID, &m.MetricKey, &m.RuleID, &m.CharacteristicID, &m.DeveloperID,
			&m.Value, &m.TextValue, &data, &m.AlertStatus, &m.AlertText,
		}
		for i := range m.Variations {
			dest = append(dest, &m.Variations[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan measure: %w", err)
		}
		if m.Data, err = decodeBlob(data); err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating measures: %w", err)
	}
	return results, nil
}
