package app

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq"

	"github.com/NixoNetwork/main/internal/config"
	"github.com/NixoNetwork/main/internal/db"
	"github.com/NixoNetwork/main/internal/logger"
	"github.com/NixoNetwork/main/internal/redis"
	"github.com/NixoNetwork/main/internal/statestore"
	"github.com/NixoNetwork/main/internal/store"
)

type Infra struct {
	Store   store.Store
	States  statestore.Store
	cleanup func() error
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{cleanup: func() error { return nil }}

	if cfg.DatabaseDSN == "" {
		return nil, errors.New("DATABASE_DSN is required")
	}

	sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := db.RunAccountsMigration(ctx, sqlDB); err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)
	infra.Store = store.NewPostgres(&db.DB{DB: sqlDB})
	infra.cleanup = sqlDB.Close

	switch cfg.StateStoreDriver {
	case "redis":
		redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		logger.Info("redis ready", nil)
		infra.States = statestore.NewRedisStore(redisClient)
	default:
		// Process-local transactions only work when a single instance
		// serves both init and callback.
		logger.Info("using in-memory state store", nil)
		infra.States = statestore.NewMemoryStore()
	}

	return infra, nil
}
