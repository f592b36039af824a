package cmd

import (
	"context"
	"fmt"

	"catalog-sync/core/catalog"
	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/core/mirror"
	"catalog-sync/core/source"
	"catalog-sync/core/storage"
	"catalog-sync/feature/sync"

	"go.uber.org/zap"
)

// buildService wires the full sync service from configuration: database,
// source and catalog clients, and the optional report archiver.
func buildService(ctx context.Context, cfg *config.Config, logg *zap.Logger) (*sync.Service, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := mirror.NewGormStore(db)
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate mirror schema: %w", err)
	}

	var archiver *sync.Archiver
	if cfg.Export.ArchiveReports {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			// Archival is an extra; a broken storage setup must not block syncing.
			logg.Warn("Storage client unavailable, report archival disabled", zap.Error(err))
		} else {
			archiver = sync.NewArchiver(client, cfg.Storage.Bucket, logg)
			if err := archiver.EnsureBucket(ctx); err != nil {
				logg.Warn("Report bucket unavailable, report archival disabled", zap.Error(err))
				archiver = nil
			}
		}
	}

	downstream := catalog.NewClient(cfg.Catalog)

	return sync.NewService(
		store,
		mirror.DefaultRegistry(),
		source.NewClient(cfg.Source),
		downstream,
		downstream,
		archiver,
		cfg.Source.ScopeList(),
		cfg.Export,
		logg,
	), nil
}

// loadConfigAndLogger performs the shared command bootstrap.
func loadConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logg, nil
}
