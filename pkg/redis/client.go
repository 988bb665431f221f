package redis

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/errors"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/redis/go-redis/v9"
)

type client struct {
	logger logger.Interface
	config *Config

	// guards universal, which Reconnect swaps while commands are in flight
	mu        sync.RWMutex
	universal redis.UniversalClient
}

var _ Client = (*client)(nil)

// NewClient creates a new Redis client with the provided logger and configuration.
func NewClient(logger logger.Interface, config *Config) Client {
	return &client{
		logger: logger,
		config: config,
	}
}

func (c *client) Connect(ctx context.Context) error {
	if err := c.config.Validate(); err != nil {
		return err
	}

	var universal redis.UniversalClient
	switch c.config.Mode {
	case Standalone:
		universal = redis.NewClient(&redis.Options{
			Addr:            c.config.Addrs[0],
			Username:        c.config.Username,
			Password:        c.config.Password,
			DB:              c.config.DB,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	case Cluster:
		universal = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:           c.config.Addrs,
			Username:        c.config.Username,
			Password:        c.config.Password,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	}

	if err := universal.Ping(ctx).Err(); err != nil {
		_ = universal.Close()
		return errors.NewErrorDetails("Failed to connect to Redis: "+err.Error(), string(errors.RedisConnectionError), "connect")
	}

	c.mu.Lock()
	previous := c.universal
	c.universal = universal
	c.mu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}
	return nil
}

func (c *client) conn() redis.UniversalClient {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.universal
}

// Reconnect retries Connect with exponential backoff plus jitter. It reports
// whether a connection was established.
func (c *client) Reconnect(ctx context.Context) bool {
	baseDelay := c.config.MinRetryBackoff
	maxDelay := c.config.MaxRetryBackoff

	for i := range c.config.ReconnectMaxRetries {
		backoff := min(baseDelay*time.Duration(math.Pow(2, float64(i))), maxDelay)

		jitter := time.Duration(rand.IntN(1000)) * time.Millisecond
		totalDelay := backoff + jitter

		c.logger.Info("Reconnecting to Redis",
			logger.Field{Key: "action", Value: "redis_reconnect"},
			logger.Field{Key: "attempt", Value: i + 1},
			logger.Field{Key: "delay", Value: totalDelay},
		)

		select {
		case <-ctx.Done():
			c.logger.Info("Reconnect cancelled", logger.Field{Key: "reason", Value: ctx.Err()})
			return false
		case <-time.After(totalDelay):
			connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := c.Connect(connectCtx)
			cancel()
			if err == nil {
				c.logger.Info("Reconnected to Redis successfully", logger.Field{Key: "attempt", Value: i + 1})
				return true
			}
			c.logger.Error(errors.TracerFromError(err), logger.Field{Key: "attempt", Value: i + 1})
		}
	}

	return false
}

func (c *client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	universal := c.universal
	c.universal = nil
	c.mu.Unlock()

	if universal == nil {
		return nil
	}
	if err := universal.Close(); err != nil {
		return errors.NewErrorDetails("Failed to close Redis client", string(errors.RedisDisconnectionError), "disconnect")
	}
	return nil
}

func (c *client) Ping(ctx context.Context) error {
	universal := c.conn()
	if universal == nil {
		return errors.NewErrorDetails("Redis client is not connected", string(errors.RedisPingError), "ping")
	}
	if err := universal.Ping(ctx).Err(); err != nil {
		return errors.NewErrorDetails("Failed to ping Redis", string(errors.RedisPingError), "ping")
	}
	return nil
}

func (c *client) HGet(ctx context.Context, key, field string) (string, error) {
	val, err := c.conn().HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return "", nil // Field does not exist
	}
	if err != nil {
		return "", errors.NewErrorDetails("Failed to get field from hash in Redis", string(errors.RedisHGetError), "hget")
	}
	return val, nil
}

func (c *client) HSet(ctx context.Context, key string, values map[string]any) (int64, error) {
	affected, err := c.conn().HSet(ctx, key, values).Result()
	if err != nil {
		return 0, errors.NewErrorDetails("Failed to set fields in hash in Redis", string(errors.RedisHSetError), "hset")
	}
	return affected, nil
}

func (c *client) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	deleted, err := c.conn().HDel(ctx, key, fields...).Result()
	if err != nil {
		return 0, errors.NewErrorDetails("Failed to delete fields from hash in Redis", string(errors.RedisHDelError), "hdel")
	}
	return deleted, nil
}

func (c *client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	values, err := c.conn().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, errors.NewErrorDetails("Failed to read hash from Redis", string(errors.RedisHGetAllError), "hgetall")
	}
	return values, nil
}

func (c *client) HExists(ctx context.Context, key, field string) (bool, error) {
	ok, err := c.conn().HExists(ctx, key, field).Result()
	if err != nil {
		return false, errors.NewErrorDetails("Failed to check hash field in Redis", string(errors.RedisHGetError), "hexists")
	}
	return ok, nil
}
