package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/siparisbot/backend/internal/domain/shared"
	"github.com/siparisbot/backend/internal/infrastructure/config"
)

// DefaultDeliveryKeyPrefix namespaces delivery IDs in Redis
const DefaultDeliveryKeyPrefix = "siparisbot:whatsapp:delivery:"

// RedisDeliveryStore implements DeliveryStore on Redis so every instance
// behind the webhook shares the same claims
type RedisDeliveryStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisDeliveryStore connects to Redis and checks the connection
func NewRedisDeliveryStore(ctx context.Context, cfg config.RedisConfig) (*RedisDeliveryStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisDeliveryStoreWithClient(client, ""), nil
}

// NewRedisDeliveryStoreWithClient wraps an existing client. An empty prefix
// selects DefaultDeliveryKeyPrefix.
func NewRedisDeliveryStoreWithClient(client *redis.Client, keyPrefix string) *RedisDeliveryStore {
	if keyPrefix == "" {
		keyPrefix = DefaultDeliveryKeyPrefix
	}
	return &RedisDeliveryStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Claim uses SET NX with expiry so concurrent deliveries race on one key
func (s *RedisDeliveryStore) Claim(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(id), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim delivery %s: %w", id, err)
	}
	return ok, nil
}

// Seen checks whether the claim key exists
func (s *RedisDeliveryStore) Seen(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check delivery %s: %w", id, err)
	}
	return n > 0, nil
}

// Release deletes the claim key
func (s *RedisDeliveryStore) Release(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to release delivery %s: %w", id, err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisDeliveryStore) Close() error {
	return s.client.Close()
}

func (s *RedisDeliveryStore) key(id string) string {
	return s.keyPrefix + id
}

var _ shared.DeliveryStore = (*RedisDeliveryStore)(nil)
