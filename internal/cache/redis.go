// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/observability"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
	"go.uber.org/zap"
)

var client *redis.Client

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// Options turns a REDIS_URL value into client options. Both redis:// URLs and
// bare host:port addresses are accepted.
func Options(addr string) (*redis.Options, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}
	// Servers without CLIENT MAINT_NOTIFICATIONS reject the handshake.
	opts.MaintNotificationsConfig = &maintnotifications.Config{Mode: maintnotifications.ModeDisabled}
	return opts, nil
}

// InitRedis connects to Redis and returns the client, or nil when Redis is
// not configured or unreachable. The application keeps running without a
// cache in that case.
func InitRedis(addr string) *redis.Client {
	log := middleware.Logger
	if addr == "" {
		log.Info("REDIS_URL not set, continuing without cache")
		client = nil
		return nil
	}

	opts, err := Options(addr)
	if err != nil {
		log.Warn("invalid REDIS_URL, continuing without cache", zap.String("addr", addr), zap.Error(err))
		client = nil
		return nil
	}

	rdb := redis.NewClient(opts)
	rdb.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis connection failed, continuing without cache", zap.Error(err))
		_ = rdb.Close()
		client = nil
		return nil
	}

	log.Info("Redis connected successfully", zap.String("addr", opts.Addr))
	client = rdb
	return rdb
}

// GetClient returns the current Redis client instance.
func GetClient() *redis.Client {
	return client
}
