package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/tech-arch1tect/minisocial/config"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewStore builds the store named by cfg.RateLimit.Store.
func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.RateLimit.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedisStore(client), nil
	case "memory", "":
		return NewMemoryStore(DefaultCleanupInterval), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit store %q", cfg.RateLimit.Store)
	}
}

func ProvideRateLimitStore(lc fx.Lifecycle, cfg *config.Config, logger *logging.Service) (Store, error) {
	store, err := NewStore(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if rs, ok := store.(*RedisStore); ok {
				if err := rs.client.Ping(ctx).Err(); err != nil {
					logger.Warn("redis rate limit store unreachable, requests will not be limited", zap.Error(err))
				}
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}

var Options = fx.Options(
	fx.Provide(ProvideRateLimitStore),
)
