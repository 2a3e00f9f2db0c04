package database

import (
	"testing"

	"coinstore/config"

	"gorm.io/gorm"
)

// NewTestDB opens a migrated in-memory SQLite database scoped to t.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := NewDB(&config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
