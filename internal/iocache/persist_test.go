package iocache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/gauge/schema"
)

func TestStores(t *testing.T) {
	t.Run("single setup", func(t *testing.T) {
		testDBPath := filepath.Join(t.TempDir(), "gauge.db")
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test
		Manager = &StoreManager{}

		// Test initialization with SQLite backend
		err := InitStores(schema.SQLiteBackend, testDBPath)
		if err != nil {
			t.Fatalf("Failed to initialize persistence: %v", err)
		}

		// Test that stores are accessible
		if Manager.GetAnalysisStore() == nil {
			t.Fatal("Analysis store is nil")
		}

		// Test cleanup
		CloseStores()

		// Verify database file was created
		if _, err := os.Stat(testDBPath); os.IsNotExist(err) {
			t.Fatal("Database file was not created")
		}
	})

	t.Run("idempotent setup", func(t *testing.T) {
		testDBPath := filepath.Join(t.TempDir(), "gauge.db")
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test
		Manager = &StoreManager{}

		// Multiple initializations should be safe (sync.Once)
		err1 := InitStores(schema.SQLiteBackend, testDBPath)
		err2 := InitStores(schema.MySQLBackend, "")
		err3 := InitStores(schema.SQLiteBackend, testDBPath)

		if err1 != nil {
			t.Fatalf("First init failed: %v", err1)
		}
		if err2 != nil {
			t.Fatalf("Second init failed: %v", err2)
		}
		if err3 != nil {
			t.Fatalf("Third init failed: %v", err3)
		}

		// Multiple closes should be safe (sync.Once)
		CloseStores()
		CloseStores()
		CloseStores()
	})

	t.Run("none backend", func(t *testing.T) {
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test
		Manager = &StoreManager{}

		// Test initialization with None backend (no database)
		if err := InitStores(schema.NoneBackend, ""); err != nil {
			t.Fatalf("Failed to initialize persistence with none backend: %v", err)
		}

		store := Manager.GetAnalysisStore()
		if store == nil {
			t.Fatal("Analysis store is nil")
		}
		status, err := store.GetStatus()
		if err != nil {
			t.Fatalf("GetStatus should not error on none backend: %v", err)
		}
		if status.Connected {
			t.Fatal("None backend should not report a connection")
		}

		// Test cleanup (should be safe even with no DB)
		CloseStores()
	})

	t.Run("empty backend", func(t *testing.T) {
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test
		Manager = &StoreManager{}

		if err := InitStores("", ""); err != nil {
			t.Fatalf("Empty backend should not error: %v", err)
		}
		if Manager.GetAnalysisStore() != nil {
			t.Fatal("Empty backend should leave the store unset")
		}
		CloseStores()
	})

	t.Run("invalid backend", func(t *testing.T) {
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test
		Manager = &StoreManager{}

		if err := InitStores("oracle", ""); err == nil {
			t.Fatal("Expected error for unsupported backend")
		}
	})
}

func TestClearAnalysis(t *testing.T) {
	t.Run("sqlite removes the file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "gauge.db")
		store, err := NewAnalysisStore(schema.SQLiteBackend, dbPath)
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		_ = store.Close()

		if err := ClearAnalysis(schema.SQLiteBackend, dbPath, ""); err != nil {
			t.Fatalf("ClearAnalysis failed: %v", err)
		}
		if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
			t.Fatal("Database file should be removed")
		}

		// Missing file is fine
		if err := ClearAnalysis(schema.SQLiteBackend, dbPath, ""); err != nil {
			t.Fatalf("ClearAnalysis on a missing file failed: %v", err)
		}
	})

	t.Run("sqlite needs a path", func(t *testing.T) {
		if err := ClearAnalysis(schema.SQLiteBackend, "", ""); err == nil {
			t.Fatal("Expected error for empty path")
		}
	})

	t.Run("none backend", func(t *testing.T) {
		if err := ClearAnalysis(schema.NoneBackend, "", ""); err != nil {
			t.Fatalf("None backend should not error: %v", err)
		}
	})

	t.Run("unsupported backend", func(t *testing.T) {
		if err := ClearAnalysis("oracle", "", ""); err == nil {
			t.Fatal("Expected error for unsupported backend")
		}
	})
}
