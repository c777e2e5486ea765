package worker

import (
	"context"
	"time"

	"github.com/rookgm/kitchenflow/internal/logger"
	"github.com/rookgm/kitchenflow/internal/models"
)

type PaymentService interface {
	ReconcilePayments(ctx context.Context, orderCh <-chan models.Order)
	GetOrdersForReconcile(ctx context.Context, orderCh chan<- models.Order) error
}

// PaymentReconciler periodically re-checks unpaid orders with the payment
// processor, covering confirmations whose webhook delivery was lost
type PaymentReconciler struct {
	svc      PaymentService
	interval time.Duration
}

// NewPaymentReconciler creates new payment reconciler
func NewPaymentReconciler(svc PaymentService, interval time.Duration) *PaymentReconciler {
	return &PaymentReconciler{
		svc:      svc,
		interval: interval,
	}
}

// Run polls for unpaid orders until ctx is cancelled
func (pr *PaymentReconciler) Run(ctx context.Context) {
	orders := make(chan models.Order, 10)

	go pr.svc.ReconcilePayments(ctx, orders)

	ticker := time.NewTicker(pr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("payment reconciler is done")
			return
		case <-ticker.C:
			if err := pr.svc.GetOrdersForReconcile(ctx, orders); err != nil {
				logger.Log.Error("error get orders for reconcile")
			}
		}
	}
}
