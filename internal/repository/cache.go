package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
)

const (
	activeMethodsKey = "shipping_methods:active"
	defaultCacheTTL  = 5 * time.Minute
)

// RedisShippingMethodCache implements ShippingMethodCache using Redis.
type RedisShippingMethodCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *logging.Logger
}

// NewRedisShippingMethodCache creates a new Redis-based shipping method cache.
func NewRedisShippingMethodCache(cfg config.RedisConfig) *RedisShippingMethodCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisShippingMethodCacheWithClient(client, cfg.TTL)
}

// NewRedisShippingMethodCacheWithClient wraps an existing client.
func NewRedisShippingMethodCacheWithClient(client redis.Cmdable, ttl time.Duration) *RedisShippingMethodCache {
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return &RedisShippingMethodCache{
		client: client,
		ttl:    ttl,
		logger: logging.NewLogger("shipping-cache"),
	}
}

// GetActive retrieves the cached active method list.
func (c *RedisShippingMethodCache) GetActive(ctx context.Context) ([]*models.ShippingMethod, error) {
	data, err := c.client.Get(ctx, activeMethodsKey).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss", logging.Fields{"key": activeMethodsKey})
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Cache get error", logging.Fields{
			"key":   activeMethodsKey,
			"error": err.Error(),
		})
		return nil, err
	}

	var methods []*models.ShippingMethod
	if err := json.Unmarshal(data, &methods); err != nil {
		return nil, err
	}

	c.logger.Debug("Cache hit", logging.Fields{"key": activeMethodsKey, "count": len(methods)})
	return methods, nil
}

// SetActive stores the active method list.
func (c *RedisShippingMethodCache) SetActive(ctx context.Context, methods []*models.ShippingMethod) error {
	if methods == nil {
		methods = []*models.ShippingMethod{}
	}
	data, err := json.Marshal(methods)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, activeMethodsKey, data, c.ttl).Err(); err != nil {
		c.logger.Error("Cache set error", logging.Fields{
			"key":   activeMethodsKey,
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// Invalidate drops the cached list.
func (c *RedisShippingMethodCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, activeMethodsKey).Err()
}

// Ping checks connectivity.
func (c *RedisShippingMethodCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client's connection pool. Injected clients without a
// Close method are left to their owner.
func (c *RedisShippingMethodCache) Close() error {
	if closer, ok := c.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// NoopShippingMethodCache never caches. It is used when caching is disabled.
type NoopShippingMethodCache struct{}

func (NoopShippingMethodCache) GetActive(context.Context) ([]*models.ShippingMethod, error) {
	return nil, nil
}

func (NoopShippingMethodCache) SetActive(context.Context, []*models.ShippingMethod) error {
	return nil
}

func (NoopShippingMethodCache) Invalidate(context.Context) error {
	return nil
}
