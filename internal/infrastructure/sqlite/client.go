package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/fastygo/taskmanager/internal/config"
	"github.com/fastygo/taskmanager/repository/orm"
)

// Open connects GORM to the SQLite file in cfg and migrates the schema.
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	path := cfg.SQLitePath
	if path == "" {
		return nil, fmt.Errorf("sqlite: empty database path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	level := gormLogger.Warn
	if cfg.Debug {
		level = gormLogger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: NewLogger(logger).LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer at a time
	sqlDB.SetMaxOpenConns(1)

	if err := orm.Migrate(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("opened sqlite store", zap.String("path", path))
	return db, nil
}

// Close closes the connection pool behind db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
