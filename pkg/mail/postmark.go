package mail

import (
	"context"
	"fmt"

	"github.com/keighl/postmark"
)

// PostmarkTransport sends through the Postmark HTTP API.
type PostmarkTransport struct {
	client *postmark.Client
}

func NewPostmarkTransport(serverToken string) *PostmarkTransport {
	return &PostmarkTransport{client: postmark.NewClient(serverToken, "")}
}

func (t *PostmarkTransport) Send(_ context.Context, msg Message) error {
	_, err := t.client.SendEmail(postmark.Email{
		From:     msg.From,
		To:       msg.To,
		Subject:  msg.Subject,
		HtmlBody: msg.HTML,
		TextBody: msg.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
