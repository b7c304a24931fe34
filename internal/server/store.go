package server

import (
	"context"
	"fmt"

	"taskapi/internal/config"
	"taskapi/internal/logger"
	"taskapi/internal/repository"
	"taskapi/internal/repository/mongodb"
	"taskapi/internal/service"
)

// store is the backend selected by STORE_DRIVER.
type store struct {
	tasks service.TaskStore
	users service.UserStore
	ping  func(context.Context) error
	close func(context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	}
	return nil, fmt.Errorf("❌ unknown STORE_DRIVER %q", cfg.StoreDriver)
}

func openPostgres(ctx context.Context, cfg *config.Config) (*store, error) {
	if cfg.DBAutoMigrate {
		if err := repository.Migrate(cfg.MigrationURL()); err != nil {
			return nil, fmt.Errorf("❌ %w", err)
		}
		logger.Info("✅ Database migrations applied")
	}

	db, err := repository.Open(ctx, cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("❌ %w", err)
	}
	logger.Info("✅ Connected to database", "driver", cfg.StoreDriver, "host", cfg.DBHost, "name", cfg.DBName)

	return &store{
		tasks: repository.NewTaskRepository(db),
		users: repository.NewUserRepository(db),
		ping: func(ctx context.Context) error {
			return repository.Ping(ctx, db)
		},
		close: func(context.Context) error {
			return repository.Close(db)
		},
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*store, error) {
	client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("❌ %w", err)
	}
	if err := mongodb.EnsureIndexes(ctx, client.Database()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("❌ %w", err)
	}
	logger.Info("✅ Connected to database", "driver", cfg.StoreDriver, "name", cfg.MongoDatabase)

	return &store{
		tasks: mongodb.NewTaskStore(client.Database()),
		users: mongodb.NewUserStore(client.Database()),
		ping:  client.Ping,
		close: client.Disconnect,
	}, nil
}
