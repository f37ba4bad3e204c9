package testutil

import (
	"fmt"
	"strings"
	"testing"

	"nexusiq/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewTestConnection returns a isolated in memory database with every model migrated.
func NewTestConnection(t *testing.T) *gorm.DB {
	t.Helper()

	// Each test gets it's own named database.
	name := strings.NewReplacer("/", "_", " ", "_", "?", "_", "#", "_", "&", "_", "=", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), database.NewConfig())
	if err != nil {
		t.Fatalf("Failed to open the test database: %v", err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get the sql connection: %v", err)
	}

	// A single connection keeps the memory database alive and serializes the transactions.
	sqlDb.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate the test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDb.Close()
	})

	return db
}
