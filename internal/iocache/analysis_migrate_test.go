package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/gauge/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateAnalysis_NoneBackend(t *testing.T) {
	err := MigrateAnalysis(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateAnalysis_SQLite(t *testing.T) {
	// Create a temporary database file for testing
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test_migration.db")

	// Run migration to latest version (should go to version 3)
	err := MigrateAnalysis(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	// Verify migration was successful by checking the database file exists
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
	assert.ElementsMatch(t, analysisTables, sqliteTables(t, dbPath))

	// Run migration again (should be a no-op)
	err = MigrateAnalysis(schema.SQLiteBackend, dbPath, -1)
	assert.NoError(t, err)

	// Step down to version 1: only the snapshots table remains
	err = MigrateAnalysis(schema.SQLiteBackend, dbPath, 1)
	assert.NoError(t, err)
	assert.Equal(t, []string{snapshotsTable}, sqliteTables(t, dbPath))

	// Rollback to version 0
	err = MigrateAnalysis(schema.SQLiteBackend, dbPath, 0)
	assert.NoError(t, err)
	assert.Empty(t, sqliteTables(t, dbPath))

	// Migrate back up to version 3
	err = MigrateAnalysis(schema.SQLiteBackend, dbPath, 3)
	assert.NoError(t, err)

	// The store opens a migrated database as is
	store, err := NewAnalysisStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestMigrateAnalysis_SQLiteInMemory(t *testing.T) {
	// Test with in-memory database
	err := MigrateAnalysis(schema.SQLiteBackend, ":memory:", -1)
	require.NoError(t, err)
}

func TestMigrateAnalysis_UnsupportedBackend(t *testing.T) {
	err := MigrateAnalysis("oracle", "", -1)
	assert.ErrorContains(t, err, "unsupported backend")
}

// sqliteTables lists the gauge tables of a SQLite file.
func sqliteTables(t *testing.T, dbPath string) []string {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name LIKE 'gauge_%' ORDER BY name`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}
