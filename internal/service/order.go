package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shopfront/commerce-api/pkg/global"
	"github.com/shopfront/commerce-api/pkg/models"
)

type OrderService struct {
	orders        OrderRepository
	carts         *CartService
	products      ProductRepository
	notifier      Notifier
	events        EventPublisher
	logger        *log.Logger
	notifyTimeout time.Duration

	inflight sync.WaitGroup
}

// NewOrderService wires the order workflow. events may be nil.
func NewOrderService(
	orders OrderRepository,
	carts *CartService,
	products ProductRepository,
	notifier Notifier,
	events EventPublisher,
	logger *log.Logger,
	notifyTimeout time.Duration,
) *OrderService {
	return &OrderService{
		orders:        orders,
		carts:         carts,
		products:      products,
		notifier:      notifier,
		events:        events,
		logger:        logger,
		notifyTimeout: notifyTimeout,
	}
}

// CreateOrder places the order, empties the user's cart and sends the
// confirmation in the background. Only validation and the order insert can
// fail the call.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	if err := global.ValidateStruct(req); err != nil {
		return nil, err
	}

	order := req.ToOrder()
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.populate(ctx, []*models.Order{order}); err != nil {
		s.logger.Printf("Warning: failed to resolve products for order %s: %v", order.ID.Hex(), err)
	}

	if err := s.carts.ClearCart(ctx, order.UserID); err != nil {
		s.logger.Printf("Warning: failed to clear cart for user %s after order %s: %v", order.UserID, order.ID.Hex(), err)
	}

	s.notify(ctx, order)
	return order, nil
}

// GetOrders returns the user's orders, newest first.
func (s *OrderService) GetOrders(ctx context.Context, userID string) ([]*models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Wait blocks until every in-flight notification has finished.
func (s *OrderService) Wait() {
	s.inflight.Wait()
}

// notify sends the confirmation email and then the order.created event,
// once each. Each gets its own notifyTimeout budget and outlives the request.
func (s *OrderService) notify(ctx context.Context, order *models.Order) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Printf("Error: notification for order %s panicked: %v", order.ID.Hex(), r)
			}
		}()

		detached := context.WithoutCancel(ctx)
		s.sendConfirmation(detached, order)
		if s.events != nil {
			s.publishCreated(detached, order)
		}
	}()
}

func (s *OrderService) sendConfirmation(ctx context.Context, order *models.Order) {
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	if err := s.notifier.SendOrderConfirmation(ctx, order.CustomerEmail, order); err != nil {
		s.logger.Printf("Error sending email: %v", err)
		return
	}
	s.logger.Printf("Order confirmation sent for order %s", order.ID.Hex())
}

func (s *OrderService) publishCreated(ctx context.Context, order *models.Order) {
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	if err := s.events.PublishOrderCreated(ctx, order); err != nil {
		s.logger.Printf("Error publishing order.created for order %s: %v", order.ID.Hex(), err)
	}
}

func (s *OrderService) populate(ctx context.Context, orders []*models.Order) error {
	seen := make(map[string]struct{})
	ids := []string{}
	for _, o := range orders {
		for _, id := range o.ProductIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	products, err := resolveProducts(ctx, s.products, ids)
	if err != nil {
		return err
	}
	for _, o := range orders {
		for i := range o.Items {
			o.Items[i].Product = products[o.Items[i].ProductID]
		}
	}
	return nil
}
