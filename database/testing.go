package database

import (
	"testing"

	"gorm.io/gorm"
)

// OpenTest returns a migrated in-memory SQLite database that is closed when
// the test ends. A single connection keeps the in-memory schema alive, so
// work inside a transaction must go through the transaction handle.
func OpenTest(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
