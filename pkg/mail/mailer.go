package mail

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shopfront/commerce-api/pkg/global"
	"github.com/shopfront/commerce-api/pkg/models"
)

// Message is a rendered email ready for a transport.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Transport delivers a rendered message. Implementations make a single
// attempt and report the outcome.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer renders order emails and hands them to a transport.
type Mailer struct {
	transport Transport
	from      string
	storeName string
}

func NewMailer(transport Transport, from, storeName string) *Mailer {
	return &Mailer{transport: transport, from: from, storeName: storeName}
}

// New builds the mailer for the configured provider.
func New(cfg global.MailConfig, logger *log.Logger) (*Mailer, error) {
	var transport Transport

	switch strings.ToLower(cfg.Provider) {
	case "smtp":
		if cfg.Host == "" {
			logger.Println("EMAIL_HOST is not set, order confirmation emails are disabled")
			transport = noopTransport{}
			break
		}
		t, err := NewSMTPTransport(cfg)
		if err != nil {
			return nil, err
		}
		transport = t
	case "postmark":
		if cfg.PostmarkToken == "" {
			return nil, fmt.Errorf("POSTMARK_API_TOKEN is not set in environment variables")
		}
		transport = NewPostmarkTransport(cfg.PostmarkToken)
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is not set in environment variables")
		}
		transport = NewSendGridTransport(cfg.SendGridAPIKey)
	case "none", "":
		transport = noopTransport{}
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}

	return NewMailer(transport, cfg.From, cfg.StoreName), nil
}

// SendOrderConfirmation renders the confirmation for order and sends it to
// recipient.
func (m *Mailer) SendOrderConfirmation(ctx context.Context, recipient string, order *models.Order) error {
	msg, err := RenderOrderConfirmation(m.storeName, order)
	if err != nil {
		return err
	}
	msg.From = m.from
	msg.To = recipient

	if err := m.transport.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send order confirmation for order %s: %w", order.ID.Hex(), err)
	}
	return nil
}

type noopTransport struct{}

func (noopTransport) Send(context.Context, Message) error { return nil }
