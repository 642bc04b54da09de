package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_orders_placed_total",
		Help: "Orders successfully persisted by checkout.",
	})

	PaymentsReconciled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_payments_reconciled_total",
		Help: "Payment callbacks applied to orders, by reported status.",
	}, []string{"payment_status"})

	ConfirmationEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_confirmation_emails_total",
		Help: "Order confirmation email attempts, by result.",
	}, []string{"result"})
)
