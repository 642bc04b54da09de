package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bookbakery/storefront/internal/mykafka"
	"github.com/bookbakery/storefront/internal/repo"
	"github.com/bookbakery/storefront/internal/service/checkout"
)

type OrderHandler struct {
	Svc      *checkout.Service
	Orders   *repo.OrderRepo
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, key string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

type createOrderRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	ShippingAddress string `json:"shipping_address"`
	Items           []struct {
		ProductID string          `json:"product_id"`
		Quantity  int             `json:"quantity"`
		Price     decimal.Decimal `json:"price"`
	} `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	customer := checkout.Customer{
		Name:    req.CustomerName,
		Email:   req.CustomerEmail,
		Phone:   req.CustomerPhone,
		Address: req.ShippingAddress,
	}
	lines := make([]checkout.Line, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, checkout.Line{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	order, err := h.Svc.PlaceOrder(c.Request().Context(), customer, lines, req.TotalAmount)
	if err != nil {
		return checkoutError(err)
	}

	h.publish(c, order.ID, map[string]any{
		"type":     "order_created",
		"order_id": order.ID,
		"total":    order.TotalAmount.StringFixed(2),
	})
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, err := h.Orders.GetOrderWithItems(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get order")
	}
	return c.JSON(http.StatusOK, order)
}

type reconcilePaymentRequest struct {
	PaymentReference string `json:"payment_reference"`
	PaymentStatus    string `json:"payment_status"`
}

func (h *OrderHandler) ReconcilePayment(c echo.Context) error {
	var req reconcilePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.ReconcilePayment(c.Request().Context(), c.Param("id"), req.PaymentReference, req.PaymentStatus)
	if err != nil {
		return checkoutError(err)
	}

	h.publish(c, order.ID, map[string]any{
		"type":              "order_payment_reconciled",
		"order_id":          order.ID,
		"payment_status":    order.PaymentStatus,
		"payment_reference": order.PaymentReference,
		"status":            order.Status,
	})
	return c.JSON(http.StatusOK, order)
}

// checkoutError maps the checkout error taxonomy onto HTTP statuses with
// generic messages.
func checkoutError(err error) error {
	switch {
	case errors.Is(err, checkout.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	case errors.Is(err, checkout.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, checkout.ErrInsufficientStock):
		return echo.NewHTTPError(http.StatusConflict, "insufficient stock")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
