// Package service holds the catalog, cart and order workflows. Persistence,
// caching and notification are injected behind the interfaces below.
package service

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shopfront/commerce-api/pkg/models"
)

type ProductRepository interface {
	List(ctx context.Context) ([]*models.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*models.Product, error)
	FindByProductIDs(ctx context.Context, productIDs []string) (map[string]*models.Product, error)
	Get(ctx context.Context, identifier string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, identifier string, set bson.M) (*models.Product, error)
	Delete(ctx context.Context, identifier string) (*models.Product, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]*models.Category, error)
	Get(ctx context.Context, categoryID string) (*models.Category, error)
	Exists(ctx context.Context, categoryID string) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, categoryID string, set bson.M) (*models.Category, error)
	Delete(ctx context.Context, categoryID string) error
}

type CartRepository interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, userID string, item models.CartItem) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*models.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	ListByUser(ctx context.Context, userID string) ([]*models.Order, error)
}

// ProductCache is a read-through cache keyed by product_id. Get returns
// redis.ErrCacheMiss on a miss.
type ProductCache interface {
	Get(ctx context.Context, productID string) (*models.Product, error)
	Set(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, productIDs ...string) error
}

type Notifier interface {
	SendOrderConfirmation(ctx context.Context, recipient string, order *models.Order) error
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
}

// resolveProducts loads the distinct products referenced by ids in one query.
// Missing products are absent from the map.
func resolveProducts(ctx context.Context, products ProductRepository, ids []string) (map[string]*models.Product, error) {
	if len(ids) == 0 {
		return map[string]*models.Product{}, nil
	}
	return products.FindByProductIDs(ctx, ids)
}
