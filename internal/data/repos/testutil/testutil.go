package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	dbpkg "github.com/yungbote/storefront-backend/internal/data/db"
	"github.com/yungbote/storefront-backend/internal/pkg/logger"
)

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a migrated database shared by the test process. It uses postgres
// when TEST_POSTGRES_DSN is set and falls back to a throwaway sqlite file
// otherwise, so the suite runs without any external service.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		cfg := &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		}

		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn != "" {
			db, dbErr = gorm.Open(postgres.Open(dsn), cfg)
			if dbErr != nil {
				return
			}
			if dbErr = db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; dbErr != nil {
				return
			}
		} else {
			dir, err := os.MkdirTemp("", "storefront-test-")
			if err != nil {
				dbErr = err
				return
			}
			path := filepath.Join(dir, "test.db")
			db, dbErr = gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), cfg)
			if dbErr != nil {
				return
			}
		}

		dbErr = dbpkg.AutoMigrateAll(db)
	})

	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

// IsPostgres reports whether the shared test DB is a real postgres; tests that
// need true multi-connection concurrency skip on the sqlite fallback.
func IsPostgres(gdb *gorm.DB) bool {
	return gdb.Dialector.Name() == "postgres"
}

func Tx(tb testing.TB, gdb *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := gdb.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
