package service

import (
	"context"
	"errors"

	"github.com/shopfront/commerce-api/pkg/global"
	"github.com/shopfront/commerce-api/pkg/models"
)

type CartService struct {
	carts    CartRepository
	products ProductRepository
}

func NewCartService(carts CartRepository, products ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// GetCart returns the user's cart. A user without one gets an empty,
// unsaved cart.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if errors.Is(err, global.ErrNotFound) {
		return models.NewEmptyCart(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, cart)
}

// AddToCart merges the line into the user's cart, creating the cart on the
// first add. Quantity defaults to 1.
func (s *CartService) AddToCart(ctx context.Context, req *models.AddToCartRequest) (*models.Cart, error) {
	if err := global.ValidateStruct(req); err != nil {
		return nil, err
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := s.carts.AddItem(ctx, req.UserID, models.CartItem{
		ProductID: req.Product,
		Quantity:  quantity,
		Size:      req.Size,
		Color:     req.Color,
	})
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, cart)
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, itemID string) (*models.Cart, error) {
	cart, err := s.carts.RemoveItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, cart)
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.carts.Clear(ctx, userID)
}

func (s *CartService) populate(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	products, err := resolveProducts(ctx, s.products, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	for i := range cart.Items {
		cart.Items[i].Product = products[cart.Items[i].ProductID]
	}
	return cart, nil
}
