package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/shopfront/commerce-api/pkg/models"
)

const orderDateLayout = "January 2, 2006"

const textConfirmation = `Dear {{.CustomerName}},

Thank you for your order at {{.StoreName}}!

Order ID: {{.OrderID}}
Order Date: {{.OrderDate}}

Order Items:
{{range .Items}}- {{.Name}} (x{{.Quantity}}) - ${{.LineTotal}}
{{end}}
Total Amount: ${{.Total}}

Shipping Address:
{{.Address.Street}}
{{.Address.City}}, {{.Address.State}} {{.Address.ZipCode}}
{{.Address.Country}}

We will send you another email when your order ships.

Thank you for shopping with us!

Best regards,
{{.StoreName}} Team
`

const htmlConfirmation = `<h2>Dear {{.CustomerName}},</h2>
<p>Thank you for your order at {{.StoreName}}!</p>

<h3>Order Details</h3>
<p><strong>Order ID:</strong> {{.OrderID}}</p>
<p><strong>Order Date:</strong> {{.OrderDate}}</p>

<h3>Order Items</h3>
<ul>
{{range .Items}}  <li>{{.Name}} (x{{.Quantity}}) - ${{.LineTotal}}</li>
{{end}}</ul>

<p><strong>Total Amount: ${{.Total}}</strong></p>

<h3>Shipping Address</h3>
<p>
  {{.Address.Street}}<br>
  {{.Address.City}}, {{.Address.State}} {{.Address.ZipCode}}<br>
  {{.Address.Country}}
</p>

<p>We will send you another email when your order ships.</p>
<p>Thank you for shopping with us!</p>

<p>Best regards,<br>{{.StoreName}} Team</p>
`

var (
	textTemplate = template.Must(template.New("confirmation.txt").Parse(textConfirmation))
	htmlTemplate = htmltemplate.Must(htmltemplate.New("confirmation.html").Parse(htmlConfirmation))
)

type confirmationLine struct {
	Name      string
	Quantity  int
	LineTotal string
}

type confirmationView struct {
	StoreName    string
	CustomerName string
	OrderID      string
	OrderDate    string
	Items        []confirmationLine
	Total        string
	Address      models.Address
}

func newConfirmationView(storeName string, order *models.Order) confirmationView {
	lines := make([]confirmationLine, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		// Products deleted after checkout are listed by their id.
		name := item.ProductID
		if item.Product != nil && item.Product.Name != "" {
			name = item.Product.Name
		}
		lines = append(lines, confirmationLine{
			Name:      name,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal().StringFixed(2),
		})
	}

	return confirmationView{
		StoreName:    storeName,
		CustomerName: order.CustomerName,
		OrderID:      order.ID.Hex(),
		OrderDate:    order.CreatedAt.Format(orderDateLayout),
		Items:        lines,
		Total:        decimal.NewFromFloat(order.TotalAmount).StringFixed(2),
		Address:      order.ShippingAddress,
	}
}

// RenderOrderConfirmation builds the subject and both bodies of the order
// confirmation email. Sender and recipient are left for the caller.
func RenderOrderConfirmation(storeName string, order *models.Order) (Message, error) {
	view := newConfirmationView(storeName, order)

	var text bytes.Buffer
	if err := textTemplate.Execute(&text, view); err != nil {
		return Message{}, fmt.Errorf("failed to render text body: %w", err)
	}

	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, view); err != nil {
		return Message{}, fmt.Errorf("failed to render html body: %w", err)
	}

	return Message{
		Subject: fmt.Sprintf("Order Confirmation - %s #%s", storeName, view.OrderID),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
