// Package store opens the repository backend selected by DB_DRIVER.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/taskmanager/internal/config"
	boltInfra "github.com/fastygo/taskmanager/internal/infrastructure/bolt"
	pgInfra "github.com/fastygo/taskmanager/internal/infrastructure/postgres"
	sqliteInfra "github.com/fastygo/taskmanager/internal/infrastructure/sqlite"
	"github.com/fastygo/taskmanager/repository"
	boltRepo "github.com/fastygo/taskmanager/repository/bolt"
	"github.com/fastygo/taskmanager/repository/orm"
	pgRepo "github.com/fastygo/taskmanager/repository/postgres"
)

// Store bundles the repositories of one backend with its health and close hooks.
type Store struct {
	Driver string
	Tasks  repository.TaskRepository
	Users  repository.UserRepository

	ping  func(ctx context.Context) error
	close func() error
}

// Ping reports whether the backend answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend.
func (s *Store) Close(context.Context) error {
	return s.close()
}

// Open connects to the backend named by cfg.Database.Driver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store: nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, fmt.Errorf("store: migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("store: postgres: %w", err)
		}
		return &Store{
			Driver: config.DriverPostgres,
			Tasks:  pgRepo.NewTaskRepository(pool),
			Users:  pgRepo.NewUserRepository(pool),
			ping:   pool.Ping,
			close: func() error {
				pgInfra.Close(pool, logger)
				return nil
			},
		}, nil

	case config.DriverBolt:
		db, err := boltInfra.Open(cfg.Database.BoltPath, boltRepo.Buckets, logger)
		if err != nil {
			return nil, fmt.Errorf("store: bolt: %w", err)
		}
		return &Store{
			Driver: config.DriverBolt,
			Tasks:  boltRepo.NewTaskRepository(db),
			Users:  boltRepo.NewUserRepository(db),
			ping:   func(context.Context) error { return boltInfra.Ping(db) },
			close:  db.Close,
		}, nil

	case config.DriverSQLite, "":
		db, err := sqliteInfra.Open(cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("store: sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver: config.DriverSQLite,
			Tasks:  orm.NewTaskRepository(db),
			Users:  orm.NewUserRepository(db),
			ping:   sqlDB.PingContext,
			close:  sqlDB.Close,
		}, nil

	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Database.Driver)
	}
}
