package storage

import (
	"path/filepath"
	"testing"
)

func setupSQLite(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := Open("sqlite", filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store.(*SQLiteStore)
}

func TestSQLiteSearchFiltersAndPages(t *testing.T) {
	testSearchFiltersAndPages(t, setupSQLite(t))
}

func TestSQLiteUpsertReplacesResources(t *testing.T) {
	testUpsertReplacesResources(t, setupSQLite(t))
}
