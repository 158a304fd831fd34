package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CartItem is one line of a cart. A line is identified by the
// (ProductID, Size, Color) triple; adding the same triple again merges.
type CartItem struct {
	ID        bson.ObjectID `json:"id" bson:"_id"`
	ProductID string        `json:"product_id" bson:"product"`
	Product   *Product      `json:"product" bson:"-"`
	Quantity  int           `json:"quantity" bson:"quantity"`
	Size      string        `json:"size" bson:"size"`
	Color     string        `json:"color" bson:"color"`
}

// Cart is owned by exactly one user.
type Cart struct {
	ID        bson.ObjectID `json:"id,omitzero" bson:"_id,omitempty"`
	UserID    string        `json:"user_id" bson:"user_id"`
	Items     []CartItem    `json:"items" bson:"items"`
	CreatedAt time.Time     `json:"created_at,omitzero" bson:"created_at,omitempty"`
	UpdatedAt time.Time     `json:"updated_at,omitzero" bson:"updated_at,omitempty"`
}

type AddToCartRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Product  string `json:"product" validate:"required"`
	Quantity *int   `json:"quantity" validate:"omitnil,gte=1"`
	Size     string `json:"size"`
	Color    string `json:"color"`
}

// NewEmptyCart is the unsaved shape returned for users without a cart.
func NewEmptyCart(userID string) *Cart {
	return &Cart{UserID: userID, Items: []CartItem{}}
}

// Matches reports whether the line has the same (product, size, color) key.
func (ci *CartItem) Matches(productID, size, color string) bool {
	return ci.ProductID == productID && ci.Size == size && ci.Color == color
}

// ProductIDs returns the distinct product references of the cart.
func (c *Cart) ProductIDs() []string {
	seen := make(map[string]struct{}, len(c.Items))
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
