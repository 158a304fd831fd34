package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"

	"github.com/shopfront/commerce-api/pkg/models"
)

// ErrCacheMiss is returned by ProductCache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// ProductCache stores single products as JSON under product:{product_id}.
type ProductCache struct {
	client *redisclient.Client
	ttl    time.Duration
}

func NewProductCache(client *redisclient.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

func productKey(productID string) string {
	return fmt.Sprintf("product:%s", productID)
}

func (c *ProductCache) Get(ctx context.Context, productID string) (*models.Product, error) {
	productJSON, err := c.client.Get(ctx, productKey(productID)).Result()
	if errors.Is(err, redisclient.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal([]byte(productJSON), &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return &product, nil
}

func (c *ProductCache) Set(ctx context.Context, product *models.Product) error {
	productJSON, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", product.ProductID, err)
	}
	if err := c.client.Set(ctx, productKey(product.ProductID), productJSON, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache product %s: %w", product.ProductID, err)
	}
	return nil
}

// Delete removes the cached entries for the given product ids.
func (c *ProductCache) Delete(ctx context.Context, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, productKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to remove products from Redis cache: %w", err)
	}
	return nil
}
