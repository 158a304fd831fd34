package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shopfront/commerce-api/pkg/models"
)

const OrderCreatedQueue = "order.created"

type OrderCreatedItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Price     float64 `json:"price"`
}

type OrderCreated struct {
	EventID     string             `json:"event_id"`
	EventType   string             `json:"event_type"`
	OrderID     string             `json:"order_id"`
	UserID      string             `json:"user_id"`
	Items       []OrderCreatedItem `json:"items"`
	TotalAmount float64            `json:"total_amount"`
	Timestamp   time.Time          `json:"timestamp"`
}

func NewOrderCreated(o *models.Order) OrderCreated {
	ev := OrderCreated{
		EventID:     uuid.NewString(),
		EventType:   "OrderCreated",
		OrderID:     o.ID.Hex(),
		UserID:      o.UserID,
		Items:       make([]OrderCreatedItem, 0, len(o.Items)),
		TotalAmount: o.TotalAmount,
		Timestamp:   time.Now().UTC(),
	}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, OrderCreatedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Color:     it.Color,
			Price:     it.Price,
		})
	}
	return ev
}

type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to RabbitMQ and declares the order queues.
func Dial(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Declare queues so publish never fails due to missing infra
	if _, err := ch.QueueDeclare(OrderCreatedQueue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare %s: %w", OrderCreatedQueue, err)
	}

	return &Publisher{conn: conn, ch: ch}, nil
}

func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, o *models.Order) error {
	ev := NewOrderCreated(o)

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderCreated: %w", err)
	}

	return p.ch.PublishWithContext(
		ctx,
		"",                // default exchange
		OrderCreatedQueue, // queue name as routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.EventID,
			Timestamp:    ev.Timestamp,
			Body:         body,
		},
	)
}
