package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vladimiradmaev/carb-calculator/internal/config"
	"github.com/vladimiradmaev/carb-calculator/internal/database"
)

// Open builds the backend selected by cfg.Storage.Driver and wraps it in a Gateway.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	var (
		backend Backend
		err     error
	)

	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, dbErr := database.NewSQLiteDB(cfg.Storage.Path, logger)
		if dbErr != nil {
			return nil, dbErr
		}
		backend = NewSQLBackend(db)
	case config.DriverPostgres:
		db, dbErr := database.NewPostgresDB(cfg.DB, logger)
		if dbErr != nil {
			return nil, dbErr
		}
		backend = NewSQLBackend(db)
	case config.DriverRedis:
		backend, err = NewRedisBackend(ctx, cfg.Redis)
	case config.DriverBadger:
		backend, err = OpenBadger(BadgerConfig{
			Path:       cfg.Storage.Path,
			SyncWrites: true,
			Logger:     logger.With("component", "badger"),
		})
	case config.DriverMemory:
		backend = NewMemoryBackend()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("storage opened", "driver", cfg.Storage.Driver, "namespace", cfg.Storage.Namespace)
	return NewGateway(backend, cfg.Storage.Namespace, logger), nil
}
