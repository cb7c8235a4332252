package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tcnexs/backend/internal/config"
)

// redisConnectTimeout bounds the start-up reachability check.
const redisConnectTimeout = 3 * time.Second

// ErrRedisNotConfigured is returned by Ping on a nil wrapper.
var ErrRedisNotConfigured = errors.New("redis client not configured")

// Redis wraps the go-redis client used by the rate limiter and readiness probe.
type Redis struct {
	Client *redis.Client
}

// NewRedis builds the client and checks reachability within
// redisConnectTimeout. An unreachable server is logged, not fatal: the rate
// limiter fails open and readiness reports it.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: redisConnectTimeout,
	})

	r := &Redis{Client: client}
	pingCtx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
	defer cancel()
	if err := r.Ping(pingCtx); err != nil {
		logger.Warn("unable to reach redis", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	}
	return r
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
		return ErrRedisNotConfigured
	}
	return r.Client.Ping(ctx).Err()
}
