package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"

	"github.com/bookbakery/storefront/internal/models"
)

// Mailer delivers order confirmations. Implementations attempt delivery and
// report failure by error return; the checkout orchestrator treats that as
// non-fatal.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) SendOrderConfirmation(_ context.Context, order *models.Order) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", order.CustomerEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Order Confirmation - %s", order.ID))
	msg.SetBody("text/html", confirmationBody(order))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: send order confirmation: %w", err)
	}
	return nil
}

func confirmationBody(order *models.Order) string {
	var b strings.Builder

	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h1 style="color: #059669;">Order Confirmation</h1>`)
	fmt.Fprintf(&b, `<p>Dear %s,</p>`, order.CustomerName)
	b.WriteString(`<p>Thank you for your order! Your order has been confirmed and is being processed.</p>`)

	b.WriteString(`<div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">`)
	b.WriteString(`<h2>Order Details</h2>`)
	fmt.Fprintf(&b, `<p><strong>Order ID:</strong> %s</p>`, order.ID)
	fmt.Fprintf(&b, `<p><strong>Total Amount:</strong> &#8358;%s</p>`, order.TotalAmount.StringFixed(2))
	fmt.Fprintf(&b, `<p><strong>Status:</strong> %s</p>`, order.Status)
	fmt.Fprintf(&b, `<p><strong>Shipping Address:</strong> %s</p>`, order.ShippingAddress)
	b.WriteString(`</div>`)

	b.WriteString(`<div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">`)
	b.WriteString(`<h3>Items Ordered:</h3>`)
	for _, item := range order.Items {
		name := item.ProductID
		if item.Product != nil {
			name = item.Product.Name
		}
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		b.WriteString(`<div style="border-bottom: 1px solid #e5e7eb; padding: 10px 0;">`)
		fmt.Fprintf(&b, `<p><strong>%s</strong></p>`, name)
		fmt.Fprintf(&b, `<p>Quantity: %d &times; &#8358;%s = &#8358;%s</p>`,
			item.Quantity, item.Price.StringFixed(2), lineTotal.StringFixed(2))
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)

	if order.ConfirmationURL != "" {
		b.WriteString(`<div style="text-align: center; margin: 30px 0;">`)
		fmt.Fprintf(&b, `<a href="%s" style="background-color: #059669; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View Order Details</a>`, order.ConfirmationURL)
		b.WriteString(`</div>`)
	}

	b.WriteString(`<p>We'll send you another email when your order ships.</p>`)
	b.WriteString(`<p>Thank you for shopping with BookStore &amp; Bakery!</p>`)
	b.WriteString(`</div>`)

	return b.String()
}
