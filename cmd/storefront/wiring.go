package main

import (
	"context"
	"fmt"

	"feteer-storefront/internal/apiclient"
	"feteer-storefront/internal/catalog"
	"feteer-storefront/internal/config"
	"feteer-storefront/internal/database"
	"feteer-storefront/internal/repository"

	"github.com/rs/zerolog"
)

// sessionStore bundles the selected repository with the resources it owns.
type sessionStore struct {
	repo    repository.SessionRepository
	closers []func()
}

// Close releases the store resources in reverse order of acquisition.
func (s *sessionStore) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openSessionStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*sessionStore, error) {
	store := &sessionStore{}

	switch cfg.Session.Store {
	case config.SessionStorePostgres:
		pool, err := database.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		store.closers = append(store.closers, pool.Close)
		store.repo = repository.NewPostgresSessionRepository(pool, cfg.Session.TTL, logger)

	case config.SessionStoreRedis:
		client, err := repository.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		store.closers = append(store.closers, func() {
			if err := client.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close redis client")
			}
		})
		store.repo = repository.NewRedisSessionRepository(client, cfg.Session.TTL, logger)

	default:
		store.repo = repository.NewMemorySessionRepository(cfg.Session.TTL, logger)
	}

	// Redis expires keys itself; the other stores are swept.
	if purger, ok := store.repo.(repository.ExpiredSessionPurger); ok && cfg.Session.CleanupInterval > 0 {
		janitor := repository.NewJanitor(purger, cfg.Session.CleanupInterval, logger)
		janitor.Start()
		store.closers = append(store.closers, func() {
			if err := janitor.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to stop session janitor")
			}
		})
	}

	logger.Info().Str("store", cfg.Session.Store).Dur("ttl", cfg.Session.TTL).Msg("session store ready")
	return store, nil
}

func openCatalogSource(ctx context.Context, cfg *config.Config, client *apiclient.Client, logger zerolog.Logger) (catalog.Source, error) {
	var primary catalog.Source

	switch cfg.Catalog.Source {
	case config.CatalogSourceFile:
		logger.Info().Str("path", cfg.Catalog.FilePath).Msg("using local catalogue file")
		return catalog.NewFileSource(cfg.Catalog.FilePath, logger), nil

	case config.CatalogSourceS3:
		s3Source, err := catalog.NewS3Source(ctx, cfg.Catalog.S3Bucket, cfg.Catalog.S3Region, cfg.Catalog.S3Key, logger)
		if err != nil {
			if !cfg.Catalog.FallbackToFile {
				return nil, fmt.Errorf("failed to initialise S3 catalogue source: %w", err)
			}
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 catalogue source, falling back to local file only")
			return catalog.NewFileSource(cfg.Catalog.FilePath, logger), nil
		}
		primary = s3Source

	default:
		primary = catalog.NewAPISource(client)
	}

	if cfg.Catalog.FallbackToFile {
		return catalog.NewFallbackSource(primary, catalog.NewFileSource(cfg.Catalog.FilePath, logger), logger), nil
	}
	return primary, nil
}
