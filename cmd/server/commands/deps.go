package commands

import (
	"context"
	"fmt"
	"log/slog"

	"showcase/internal/config"
	"showcase/internal/domain/repositories"
	"showcase/internal/domain/services"
	"showcase/internal/handler"
	"showcase/internal/repository/cache"
	"showcase/internal/repository/memory"
	"showcase/internal/repository/postgres"
	"showcase/internal/service"
	serviceAuth "showcase/internal/service/auth"
)

// backend is the storage side of the process, chosen by STORE_DRIVER
type backend struct {
	projects   repositories.ProjectRepository
	engagement repositories.EngagementRepository
	users      repositories.UserRepository
	txManager  repositories.TransactionManager
	pinger     handler.Pinger // nil for the memory store
	closers    []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackend connects the configured store and, when REDIS_URL is set,
// puts the display-profile cache in front of the identity store.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	b := &backend{}

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		b.projects = store.Projects()
		b.engagement = store.Engagement()
		b.users = store.Users()
		b.txManager = store.TransactionManager()
		logger.Warn("using in-memory store; data is lost on exit")

	default:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)

		logger.Info("database connected",
			"max_conns", pool.Config().MaxConns,
			"min_conns", pool.Config().MinConns,
		)

		repoConfig := &postgres.RepositoryConfig{
			Pool:           pool,
			Logger:         logger,
			SearchLanguage: cfg.SearchLanguage,
		}
		b.projects = postgres.NewProjectRepository(repoConfig)
		b.engagement = postgres.NewEngagementRepository(repoConfig)
		b.users = postgres.NewUserRepository(repoConfig)
		b.txManager = postgres.NewTransactionManager(repoConfig)
		b.pinger = pool
	}

	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() { client.Close() })
		b.users = cache.NewUserSummaryCache(b.users, client, cfg.ProfileCacheTTL, logger)
		logger.Info("user summary cache enabled", "ttl", cfg.ProfileCacheTTL)
	}

	return b, nil
}

// appServices is the business layer wired over a backend
type appServices struct {
	projects   services.ProjectService
	engagement services.EngagementService
	projector  services.ProjectProjector
}

func newServices(b *backend, cfg *config.Config, logger *slog.Logger) appServices {
	authorizer := serviceAuth.NewOwnerBasedAuthorizer()

	engagement := service.NewEngagementService(b.projects, b.engagement, b.users, authorizer, b.txManager, logger)
	projects := service.NewProjectService(b.projects, b.users, engagement, authorizer, b.txManager, cfg.SearchLanguage, logger)

	return appServices{
		projects:   projects,
		engagement: engagement,
		projector:  service.NewProjectProjector(b.users, logger),
	}
}

// migrateUp applies the embedded schema to DATABASE_URL
func migrateUp(cfg *config.Config, logger *slog.Logger) error {
	migrator, err := postgres.NewMigrator(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
