package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cixi/storefront-backend/internal/cart"
	"github.com/cixi/storefront-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cart:session:"

// RedisStore keeps each cart as a JSON document with a sliding TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (*cart.Cart, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}

	// GETEX refreshes the expiry so reading a cart keeps it alive
	raw, err := s.client.GetEx(ctx, key(id), s.ttl).Bytes()
	if err == redis.Nil {
		return cart.New(), nil
	}
	if err != nil {
		logger.Error("Failed to load cart session", err, map[string]interface{}{
			"session_id": id,
		})
		return nil, err
	}

	var c cart.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		// unreadable documents are dropped rather than blocking the shopper
		logger.Warn("Discarding corrupt cart session", map[string]interface{}{
			"session_id": id,
			"error":      err.Error(),
		})
		return cart.New(), nil
	}
	return c.Normalize(), nil
}

func (s *RedisStore) Save(ctx context.Context, id string, c *cart.Cart) error {
	if !ValidID(id) {
		return ErrInvalidID
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, key(id), raw, s.ttl).Err(); err != nil {
		logger.Error("Failed to save cart session", err, map[string]interface{}{
			"session_id": id,
		})
		return err
	}

	logger.Debug("Cart session saved", map[string]interface{}{
		"session_id":   id,
		"simple_items": len(c.SimpleItems),
		"kit_items":    len(c.KitItems),
	})
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	return s.client.Del(ctx, key(id)).Err()
}
