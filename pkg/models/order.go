package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range statusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// OrderItem is a snapshot of a line at checkout time. Price is the unit
// price captured then, independent of the current catalog price.
type OrderItem struct {
	ProductID string   `json:"product_id" bson:"product"`
	Product   *Product `json:"product" bson:"-"`
	Quantity  int      `json:"quantity" bson:"quantity"`
	Size      string   `json:"size,omitempty" bson:"size,omitempty"`
	Color     string   `json:"color,omitempty" bson:"color,omitempty"`
	Price     float64  `json:"price" bson:"price"`
}

// Address represents a shipping address
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zip_code" bson:"zip_code"`
	Country string `json:"country" bson:"country"`
}

// Order is immutable once created except for Status.
type Order struct {
	ID              bson.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          string        `json:"user_id" bson:"user_id"`
	Items           []OrderItem   `json:"items" bson:"items"`
	TotalAmount     float64       `json:"total_amount" bson:"total_amount"`
	CustomerEmail   string        `json:"customer_email" bson:"customer_email"`
	CustomerName    string        `json:"customer_name" bson:"customer_name"`
	ShippingAddress Address       `json:"shipping_address" bson:"shipping_address"`
	Status          OrderStatus   `json:"status" bson:"status"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}

type CreateOrderItemRequest struct {
	Product  string   `json:"product" validate:"required"`
	Quantity int      `json:"quantity" validate:"gte=1"`
	Size     string   `json:"size"`
	Color    string   `json:"color"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
}

type CreateOrderRequest struct {
	UserID          string                   `json:"user_id" validate:"required"`
	Items           []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	CustomerEmail   string                   `json:"customer_email" validate:"required,email"`
	CustomerName    string                   `json:"customer_name" validate:"required"`
	ShippingAddress Address                  `json:"shipping_address"`
}

// ToOrder snapshots the request into a pending order with its total computed.
func (req *CreateOrderRequest) ToOrder() *Order {
	items := make([]OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		item := OrderItem{
			ProductID: it.Product,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Color:     it.Color,
		}
		if it.Price != nil {
			item.Price = *it.Price
		}
		items = append(items, item)
	}

	order := &Order{
		UserID:          req.UserID,
		Items:           items,
		CustomerEmail:   req.CustomerEmail,
		CustomerName:    req.CustomerName,
		ShippingAddress: req.ShippingAddress,
		Status:          StatusPending,
	}
	order.CalculateTotal()
	order.SetTimestamps()
	return order
}

// LineTotal returns quantity x price for one item.
func (oi *OrderItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(oi.Price).Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

// CalculateTotal sums quantity x price over the items in decimal arithmetic.
// The sum is stored unrounded.
func (o *Order) CalculateTotal() {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].LineTotal())
	}
	o.TotalAmount = total.InexactFloat64()
}

// SetTimestamps sets created_at and updated_at timestamps
func (o *Order) SetTimestamps() {
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
}

// ProductIDs returns the distinct product references of the order.
func (o *Order) ProductIDs() []string {
	seen := make(map[string]struct{}, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
