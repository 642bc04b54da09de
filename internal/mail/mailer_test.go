package mail

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bookbakery/storefront/internal/models"
)

func TestConfirmationBody(t *testing.T) {
	order := &models.Order{
		ID:              "4f3c2a10-1111-2222-3333-444455556666",
		CustomerName:    "Ada Obi",
		CustomerEmail:   "ada@example.com",
		ShippingAddress: "12 Marina Road, Lagos",
		TotalAmount:     decimal.RequireFromString("1150.00"),
		Status:          models.OrderStatusConfirmed,
		Items: []models.OrderItem{
			{
				ProductID: "p1",
				Quantity:  2,
				Price:     decimal.RequireFromString("500.00"),
				Product:   &models.Product{Name: "Things Fall Apart"},
			},
			{
				ProductID: "p2",
				Quantity:  1,
				Price:     decimal.RequireFromString("150.00"),
			},
		},
		ConfirmationURL: "http://localhost:3000/order-confirmation/4f3c2a10-1111-2222-3333-444455556666",
	}

	body := confirmationBody(order)

	require.Contains(t, body, order.ID)
	require.Contains(t, body, "Ada Obi")
	require.Contains(t, body, "12 Marina Road, Lagos")
	require.Contains(t, body, "1150.00")
	require.Contains(t, body, "Things Fall Apart")
	// Line without a preloaded product falls back to the product id.
	require.Contains(t, body, "p2")
	// Line total is quantity times the snapshot price.
	require.Contains(t, body, "1000.00")
	require.Contains(t, body, order.ConfirmationURL)
}
