// Package dbtest provides a migrated in-memory database for package tests.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"selfcare/internal/database"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var counter atomic.Int64

// New returns a fresh, migrated SQLite database private to the test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:selfcare_test_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", counter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(zap.NewNop(), logger.Silent))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
