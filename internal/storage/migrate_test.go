package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(testContext(t), db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	if err := MigrateUp(testContext(t), db); err != nil {
		t.Fatalf("migrate up must be repeatable: %v", err)
	}
	if err := MigrateDown(testContext(t), db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}
	if err := MigrateUp(testContext(t), db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	store, err := NewSQLiteStore(db, 0)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Put(testContext(t), "k", "v"); err != nil {
		t.Fatalf("put after roundtrip failed: %v", err)
	}
	got, err := store.Get(testContext(t), "k")
	if err != nil || got != "v" {
		t.Fatalf("get after roundtrip: %q %v", got, err)
	}
}
