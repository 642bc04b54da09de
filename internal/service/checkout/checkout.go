// Package checkout turns a validated cart into persisted order records and
// reconciles the outcome reported by the external payment provider.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bookbakery/storefront/internal/logging"
	"github.com/bookbakery/storefront/internal/mail"
	"github.com/bookbakery/storefront/internal/metrics"
	"github.com/bookbakery/storefront/internal/models"
	"github.com/bookbakery/storefront/internal/repo"
)

type Service struct {
	DB      *gorm.DB
	Orders  *repo.OrderRepo
	Mailer  mail.Mailer
	BaseURL string
}

func NewService(db *gorm.DB, mailer mail.Mailer, baseURL string) *Service {
	return &Service{
		DB:      db,
		Orders:  &repo.OrderRepo{DB: db},
		Mailer:  mailer,
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Line is one cart line at submission time. Price is the client-held
// snapshot and is what gets persisted on the order item.
type Line struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// PlaceOrder persists the order, its item snapshots, and the matching stock
// decrements in a single transaction. Any failure leaves the store untouched.
func (s *Service) PlaceOrder(ctx context.Context, customer Customer, lines []Line, total decimal.Decimal) (*models.Order, error) {
	if err := validatePlaceOrder(customer, lines, total); err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		ShippingAddress: customer.Address,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
	}

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("%w: create order: %v", ErrPersistence, err)
		}

		for _, line := range lines {
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("%w: create order item: %v", ErrPersistence, err)
			}

			affected, err := repo.DecrementStock(tx, line.ProductID, line.Quantity)
			if err != nil {
				return fmt.Errorf("%w: decrement stock: %v", ErrPersistence, err)
			}
			if affected == 0 {
				exists, err := repo.ProductExists(tx, line.ProductID)
				if err != nil {
					return fmt.Errorf("%w: check product: %v", ErrPersistence, err)
				}
				if !exists {
					return fmt.Errorf("%w: product %s", ErrNotFound, line.ProductID)
				}
				return fmt.Errorf("%w: product %s", ErrInsufficientStock, line.ProductID)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	metrics.OrdersPlaced.Inc()
	logging.FromContext(ctx).Info("order_placed",
		"order_id", order.ID,
		"total", order.TotalAmount.StringFixed(2),
		"lines", len(lines),
	)
	return order, nil
}

func validatePlaceOrder(customer Customer, lines []Line, total decimal.Decimal) error {
	if customer.Name == "" || customer.Email == "" || customer.Address == "" {
		return fmt.Errorf("%w: customer name, email and shipping address required", ErrValidation)
	}
	if len(lines) == 0 {
		return fmt.Errorf("%w: items required", ErrValidation)
	}

	sum := decimal.Zero
	for _, line := range lines {
		if line.ProductID == "" {
			return fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		if line.Price.IsNegative() {
			return fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
		sum = sum.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	if !sum.Equal(total) {
		return fmt.Errorf("%w: total %s does not match line sum %s", ErrValidation, total.StringFixed(2), sum.StringFixed(2))
	}
	return nil
}

// ReconcilePayment applies the payment provider's callback to the order and,
// on completion, sends the confirmation email. Email failure is logged and
// swallowed; repeated completed callbacks re-send the email.
func (s *Service) ReconcilePayment(ctx context.Context, orderID, paymentReference, paymentStatus string) (*models.Order, error) {
	status := models.OrderStatusPending
	if paymentStatus == models.PaymentStatusCompleted {
		status = models.OrderStatusConfirmed
	}

	order, err := s.Orders.UpdatePayment(ctx, orderID, paymentReference, paymentStatus, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("%w: update payment: %v", ErrPersistence, err)
	}

	metrics.PaymentsReconciled.WithLabelValues(paymentStatus).Inc()

	l := logging.FromContext(ctx).With("order_id", orderID, "payment_status", paymentStatus)
	l.Info("payment_reconciled", "payment_reference", paymentReference)

	if paymentStatus == models.PaymentStatusCompleted {
		s.sendConfirmation(ctx, l, orderID)
	}

	return order, nil
}

func (s *Service) sendConfirmation(ctx context.Context, l *slog.Logger, orderID string) {
	full, err := s.Orders.GetOrderWithItems(ctx, orderID)
	if err != nil {
		l.Error("confirmation_email_error", "reason", "load order", "error", err)
		metrics.ConfirmationEmails.WithLabelValues("failed").Inc()
		return
	}
	full.ConfirmationURL = fmt.Sprintf("%s/order-confirmation/%s", s.BaseURL, orderID)

	mailCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.Mailer.SendOrderConfirmation(mailCtx, full); err != nil {
		l.Error("confirmation_email_error", "error", err)
		metrics.ConfirmationEmails.WithLabelValues("failed").Inc()
		return
	}
	metrics.ConfirmationEmails.WithLabelValues("sent").Inc()
	l.Info("confirmation_email_sent")
}

// SetStatus applies an admin status edit, holding orders to the legal
// lifecycle transitions.
func (s *Service) SetStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	order, err := s.Orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("%w: load order: %v", ErrPersistence, err)
	}

	if !models.CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: cannot move order from %q to %q", ErrValidation, order.Status, status)
	}

	updated, err := s.Orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, fmt.Errorf("%w: update status: %v", ErrPersistence, err)
	}

	logging.FromContext(ctx).Info("order_status_updated",
		"order_id", orderID,
		"from", order.Status,
		"to", status,
	)
	return updated, nil
}
