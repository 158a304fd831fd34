package mail

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridTransport sends through the SendGrid v3 mail API.
type SendGridTransport struct {
	client *sendgrid.Client
}

func NewSendGridTransport(apiKey string) *SendGridTransport {
	return &SendGridTransport{client: sendgrid.NewSendClient(apiKey)}
}

func (t *SendGridTransport) Send(ctx context.Context, msg Message) error {
	from, err := sendGridAddress(msg.From)
	if err != nil {
		return fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	to, err := sendGridAddress(msg.To)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}

	message := sgmail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)
	res, err := t.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected email: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// sendGridAddress accepts both "addr@host" and "Name <addr@host>".
func sendGridAddress(raw string) (*sgmail.Email, error) {
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return nil, err
	}
	return sgmail.NewEmail(addr.Name, addr.Address), nil
}
