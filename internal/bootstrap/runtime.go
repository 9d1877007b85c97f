// Package bootstrap wires the process-wide dependencies shared by the server
// and the command line tools.
package bootstrap

import (
	"context"
	"fmt"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/seed"
	"inkwell/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedBuiltInGroups upserts the groups shipped in the seed fixture.
	SeedBuiltInGroups bool
}

// Runtime holds the connections a process needs. Redis may be nil.
type Runtime struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Images storage.ImageStore
}

// InitRuntime connects to the database, Redis and image storage and
// optionally seeds the built-in groups.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// A nil client means the page cache is disabled.
	rdb := cache.InitRedis(cfg.RedisURL)

	images, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("image storage: %w", err)
	}

	if opts.SeedBuiltInGroups {
		fixtures, err := seed.BuiltInGroups()
		if err != nil {
			return nil, err
		}
		groups, err := seed.Groups(db.WithContext(ctx), fixtures)
		if err != nil {
			return nil, fmt.Errorf("failed to seed built-in groups: %w", err)
		}
		middleware.Logger.Info("built-in groups ensured", zap.Int("count", len(groups)))
	}

	return &Runtime{DB: db, Redis: rdb, Images: images}, nil
}

// Close releases every connection held by the runtime.
func (r *Runtime) Close() {
	log := middleware.Logger
	if sqlDB, err := r.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("error closing sql DB", zap.Error(err))
		}
	}
	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			log.Error("error closing redis", zap.Error(err))
		}
	}
	if closer, ok := r.Images.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error("error closing image storage", zap.Error(err))
		}
	}
}
