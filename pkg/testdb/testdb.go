package testdb

import (
	"testing"

	"datacatalogapi/bootstrap"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// New opens a fresh in-memory database with the full schema migrated. Each
// call returns an isolated database, torn down when the test finishes.
//
// The single-connection limit keeps the in-memory database alive for the
// whole test: sqlite drops a :memory: database when its last connection
// closes.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := bootstrap.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return db
}
