package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cixi/storefront-backend/config"
	"github.com/cixi/storefront-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

var client *redis.Client

// Init connects the shared client and pings it
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	client = c
	logger.Info("Redis connection established")
	return nil
}

// SetClient swaps the shared client; tests point it at miniredis
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the shared client, nil when Redis is not configured
func GetClient() *redis.Client {
	return client
}

func Close() error {
	if client == nil {
		return nil
	}
	logger.Info("Closing Redis connection")
	err := client.Close()
	client = nil
	return err
}

// BlacklistToken revokes a session token until it would have expired anyway
func BlacklistToken(ctx context.Context, tokenID string, expiry time.Duration) error {
	if client == nil {
		logger.Warn("Redis not configured, token revocation skipped")
		return nil
	}
	if expiry <= 0 {
		return nil
	}

	if err := client.Set(ctx, blacklistPrefix+tokenID, "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to blacklist token", err)
		return err
	}
	logger.Debug("Token blacklisted", map[string]interface{}{
		"expiry": expiry.String(),
	})
	return nil
}

// IsTokenBlacklisted reports whether tokenID was revoked
func IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	if client == nil {
		return false, nil
	}

	val, err := client.Get(ctx, blacklistPrefix+tokenID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err)
		return false, err
	}
	return val == "revoked", nil
}
