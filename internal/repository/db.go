package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"weekly-challenges/internal/model"
)

const defaultSQLiteDSN = "weekly_challenges.db"

// NewDB opens the database named by dsn. Postgres URLs select the postgres
// dialector, anything else is treated as a SQLite path or DSN.
func NewDB(dsn string, log logrus.FieldLogger) (*gorm.DB, error) {
	dialector, err := dialectorFor(dsn)
	if err != nil {
		return nil, err
	}

	dbLogger := logger.Discard
	if log != nil {
		dbLogger = logger.New(
			log.WithField("component", "gorm"),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         dbLogger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite takes one writer at a time and reports an overlapping write as
	// "database is locked" without waiting. One connection queues requests
	// in the pool instead.
	if dialector.Name() == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Challenge{}, &model.DailyEntry{}); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}

func dialectorFor(dsn string) (gorm.Dialector, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case strings.HasPrefix(dsn, "postgres://"):
		// Hosting providers hand out postgres:// URLs; normalise to the canonical scheme.
		return postgres.Open("postgresql://" + strings.TrimPrefix(dsn, "postgres://")), nil
	case strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn), nil
	}

	path := SQLitePath(dsn)
	if !strings.Contains(path, ":memory:") && !strings.Contains(path, "mode=memory") {
		file, _, _ := strings.Cut(strings.TrimPrefix(path, "file:"), "?")
		if dir := filepath.Dir(file); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir %s: %w", dir, err)
			}
		}
	}
	return sqlite.Open(path), nil
}

// SQLitePath strips a sqlite:/// URL prefix and falls back to the default file.
func SQLitePath(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	dsn = strings.TrimPrefix(dsn, "sqlite:///")
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	if dsn == "" {
		return defaultSQLiteDSN
	}
	return dsn
}
