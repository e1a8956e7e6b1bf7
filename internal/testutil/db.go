package testutil

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-server/internal/config"
	"github.com/BruksfildServices01/clinic-server/internal/db"
)

// NewDB opens a private in-memory database with the full schema.
// The pool holds a single connection, so code running inside a
// transaction must only use the transaction handle.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=private", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// Config returns the defaults the workflows run with in tests.
func Config() *config.Config {
	return &config.Config{
		Env:                      "development",
		PasswordMode:             config.PasswordPlain,
		ContentStore:             config.ContentStoreFS,
		DailyAppointmentCapacity: 20,
		DefaultMedicinePrice:     10,
		DefaultConsultationFee:   50,
		LargeWriteBytesPerSec:    256 * 1024,
	}
}

// NewSeededDB is NewDB plus the demo users and medicine catalog.
func NewSeededDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb := NewDB(t)
	if err := db.Seed(gdb, Config()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return gdb
}
