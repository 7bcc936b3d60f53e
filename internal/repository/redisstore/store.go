// Package redisstore persists client-side list state (cart, wishlist,
// compare) as one JSON snapshot per user key. Writes are synchronous and
// replace the whole snapshot, so a reload restores state exactly.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/config"
	"github.com/pehenava/storefront/internal/domain"
)

const (
	cartKeyPrefix     = "cart:"
	wishlistKeyPrefix = "wishlist:"
	compareKeyPrefix  = "compare:"
)

// NewClient connects to Redis and verifies the connection.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

type cartStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCartStore creates a Redis-backed cart store
func NewCartStore(client *redis.Client, logger *zap.Logger) *cartStore {
	return &cartStore{
		client: client,
		logger: logger,
	}
}

// Get returns the user's cart, or an empty cart when none is stored.
func (s *cartStore) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, cartKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
	}
	if err != nil {
		s.logger.Error("Failed to get cart", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		s.logger.Error("Failed to decode cart snapshot", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}

	return &cart, nil
}

func (s *cartStore) Save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, cartKeyPrefix+cart.UserID, data, 0).Err(); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err), zap.String("user_id", cart.UserID))
		return err
	}

	return nil
}

func (s *cartStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKeyPrefix+userID).Err(); err != nil {
		s.logger.Error("Failed to clear cart", zap.Error(err), zap.String("user_id", userID))
		return err
	}
	return nil
}

type wishlistStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewWishlistStore creates a Redis-backed wishlist store
func NewWishlistStore(client *redis.Client, logger *zap.Logger) *wishlistStore {
	return &wishlistStore{
		client: client,
		logger: logger,
	}
}

func (s *wishlistStore) Get(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	var items []domain.WishlistItem
	if err := getJSON(ctx, s.client, wishlistKeyPrefix+userID, &items); err != nil {
		s.logger.Error("Failed to get wishlist", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}
	if items == nil {
		items = []domain.WishlistItem{}
	}
	return items, nil
}

func (s *wishlistStore) Save(ctx context.Context, userID string, items []domain.WishlistItem) error {
	if err := setJSON(ctx, s.client, wishlistKeyPrefix+userID, items); err != nil {
		s.logger.Error("Failed to save wishlist", zap.Error(err), zap.String("user_id", userID))
		return err
	}
	return nil
}

func (s *wishlistStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, wishlistKeyPrefix+userID).Err()
}

type compareStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCompareStore creates a Redis-backed compare list store
func NewCompareStore(client *redis.Client, logger *zap.Logger) *compareStore {
	return &compareStore{
		client: client,
		logger: logger,
	}
}

func (s *compareStore) Get(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := getJSON(ctx, s.client, compareKeyPrefix+userID, &ids); err != nil {
		s.logger.Error("Failed to get compare list", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (s *compareStore) Save(ctx context.Context, userID string, productIDs []string) error {
	if err := setJSON(ctx, s.client, compareKeyPrefix+userID, productIDs); err != nil {
		s.logger.Error("Failed to save compare list", zap.Error(err), zap.String("user_id", userID))
		return err
	}
	return nil
}

func (s *compareStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, compareKeyPrefix+userID).Err()
}

func getJSON(ctx context.Context, client *redis.Client, key string, dest interface{}) error {
	data, err := client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func setJSON(ctx context.Context, client *redis.Client, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, 0).Err()
}
