package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-forum-bot/internal/config"
)

// Redis wraps the go-redis client backing the member role cache.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration. Dials and commands
// are bounded by cfg.Timeout() and retried once, so a missing server costs role
// classification one short wait before it falls back to member lookups.
// An unreachable server at start-up is logged, not fatal.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	timeout := cfg.Timeout()
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolTimeout:  timeout,
		MaxRetries:   1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("role cache unavailable; using direct member lookups",
			zap.String("addr", cfg.Addr),
			zap.Duration("timeout", timeout),
			zap.Error(err))
	} else {
		logger.Info("role cache connected", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
