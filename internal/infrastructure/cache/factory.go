package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/siparisbot/backend/internal/domain/shared"
	"github.com/siparisbot/backend/internal/infrastructure/config"
)

// DeliveryStoreFactory picks the delivery store for the configured environment
type DeliveryStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// DeliveryStoreFactoryOption is a functional option for configuring the factory
type DeliveryStoreFactoryOption func(*DeliveryStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) DeliveryStoreFactoryOption {
	return func(f *DeliveryStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to the
// in-memory store. Default true.
func WithInMemoryFallback(allow bool) DeliveryStoreFactoryOption {
	return func(f *DeliveryStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewDeliveryStoreFactory creates a factory
func NewDeliveryStoreFactory(cfg config.RedisConfig, opts ...DeliveryStoreFactoryOption) *DeliveryStoreFactory {
	f := &DeliveryStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns the Redis store when Redis is enabled and reachable.
// Disabled Redis always yields the in-memory store.
func (f *DeliveryStoreFactory) CreateStore(ctx context.Context) (shared.DeliveryStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory delivery store")
		return NewInMemoryDeliveryStore(), nil
	}

	store, err := NewRedisDeliveryStore(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis delivery store", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for message deduplication but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory delivery store. "+
		"Redelivered messages may be handled twice across instances.",
		zap.Error(err),
	)
	return NewInMemoryDeliveryStore(), nil
}
