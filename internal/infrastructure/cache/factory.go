package cache

import (
	"fmt"

	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore builds the webhook dedup store. Redis is tried
// first; when it is unreachable and fallback is allowed, a process-local
// store is used instead. Fallback should stay disabled in clustered
// deployments because replicas would then dedup independently.
func NewIdempotencyStore(cfg *config.RedisConfig, allowInMemoryFallback bool, logger *zap.Logger) (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(cfg)
	if err == nil {
		logger.Info("using Redis idempotency store", zap.String("addr", cfg.RedisAddr()))
		return store, nil
	}

	if !allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for webhook idempotency but unavailable: %w", err)
	}

	logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
		zap.Error(err))
	return NewInMemoryIdempotencyStore(), nil
}
