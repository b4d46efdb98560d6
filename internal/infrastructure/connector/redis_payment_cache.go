package connector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/config"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const paymentKeyPrefix = "payments:"

// RedisPaymentCache caches terminal payments in redis. Terminal payments never
// change, so entries only expire and are never invalidated.
type RedisPaymentCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisPaymentCache connects to redis using settings.
func NewRedisPaymentCache(settings *config.CacheSettings, logger logger.Logger) (*RedisPaymentCache, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	client := redis.NewClient(&redis.Options{
		Addr:     settings.Addr,
		Password: settings.Password,
		DB:       settings.DB,
	})
	return NewRedisPaymentCacheWithClient(client, settings.TTL, logger), nil
}

// NewRedisPaymentCacheWithClient wraps an existing client.
func NewRedisPaymentCacheWithClient(client redis.UniversalClient, ttl time.Duration, logger logger.Logger) *RedisPaymentCache {
	return &RedisPaymentCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// PaymentKey returns the cache key of a payment.
func PaymentKey(paymentID uuid.UUID) string {
	return paymentKeyPrefix + paymentID.String()
}

func (c *RedisPaymentCache) Get(ctx context.Context, paymentID uuid.UUID) (*payments.Payment, bool, error) {
	data, err := c.client.Get(ctx, PaymentKey(paymentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached payment: %w", err)
	}

	var payment payments.Payment
	if err := json.Unmarshal(data, &payment); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached payment: %w", err)
	}
	return &payment, true, nil
}

// Set caches payment if it is terminal and ignores it otherwise.
func (c *RedisPaymentCache) Set(ctx context.Context, payment *payments.Payment) error {
	if !payment.Status.IsTerminal() {
		return nil
	}

	data, err := json.Marshal(payment)
	if err != nil {
		return fmt.Errorf("failed to encode payment: %w", err)
	}
	if err := c.client.Set(ctx, PaymentKey(payment.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache payment: %w", err)
	}
	c.logger.Debug("Cached payment ", payment.ID, " for ", c.ttl)
	return nil
}

func (c *RedisPaymentCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (c *RedisPaymentCache) Close() error {
	return c.client.Close()
}

// NoopPaymentCache never stores anything. Used when caching is disabled.
type NoopPaymentCache struct{}

func (NoopPaymentCache) Get(context.Context, uuid.UUID) (*payments.Payment, bool, error) {
	return nil, false, nil
}

func (NoopPaymentCache) Set(context.Context, *payments.Payment) error {
	return nil
}

func (NoopPaymentCache) Ping(context.Context) error {
	return nil
}
