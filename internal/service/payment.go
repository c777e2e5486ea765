package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rookgm/kitchenflow/internal/logger"
	"github.com/rookgm/kitchenflow/internal/models"
	"github.com/rookgm/kitchenflow/internal/payments"
	"go.uber.org/zap"
)

// ProcessorClient fetches authoritative payment records from the external
// payment processor
type ProcessorClient interface {
	// GetPayment fetches the payment record for reference
	GetPayment(ctx context.Context, reference string) (*payments.Payment, error)
}

// PaymentService couples processor payment confirmations to orders. An
// order must be paid before front of house may confirm it into the
// kitchen queue.
type PaymentService struct {
	repo   OrderRepository
	client ProcessorClient
}

// NewPaymentService creates new PaymentService instance
func NewPaymentService(repo OrderRepository, client ProcessorClient) *PaymentService {
	return &PaymentService{
		repo:   repo,
		client: client,
	}
}

// ConfirmPayment verifies reference with the processor and marks the order
// paid. It models a webhook that may be redelivered: confirming an already
// paid order with the same reference returns the order unchanged.
func (ps *PaymentService) ConfirmPayment(ctx context.Context, orderID uuid.UUID, reference string) (*models.Order, error) {
	order, err := ps.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		if order.PaymentReference != nil && *order.PaymentReference == reference {
			// redelivered confirmation
			return order, nil
		}
		return nil, models.ErrPaymentRefMismatch
	}

	payment, err := ps.client.GetPayment(ctx, reference)
	if err != nil {
		return nil, err
	}
	if payment.Status != payments.StatusSucceeded {
		return nil, models.NewPaymentNotSucceededError(payment.Status)
	}

	updated, err := ps.repo.MarkOrderPaid(ctx, orderID, payment.Method, reference)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			// another delivery of the same confirmation won the race
			cur, rerr := ps.repo.GetOrderByID(ctx, orderID)
			if rerr != nil {
				return nil, rerr
			}
			if cur.PaymentStatus == models.PaymentStatusPaid && cur.PaymentReference != nil && *cur.PaymentReference == reference {
				return cur, nil
			}
			return nil, models.ErrPaymentRefMismatch
		}
		return nil, err
	}

	logger.Log.Info("payment captured",
		zap.String("number", updated.Number),
		zap.String("reference", reference),
		zap.String("method", payment.Method))

	return updated, nil
}

// ReconcilePayments drains orderCh and re-checks each order against the
// processor, capturing payments whose webhook never arrived
func (ps *PaymentService) ReconcilePayments(ctx context.Context, orderCh <-chan models.Order) {
	for {
		var errUnavailable models.ProcessorUnavailableError
		select {
		case <-ctx.Done():
			logger.Log.Debug("payment reconciliation is done")
			return
		case order, ok := <-orderCh:
			if !ok {
				return
			}
			if order.PaymentReference == nil {
				continue
			}

			logger.Log.Debug("reconciling payment", zap.String("number", order.Number))
			_, err := ps.ConfirmPayment(ctx, order.ID, *order.PaymentReference)
			if err != nil {
				switch {
				case errors.As(err, &errUnavailable):
					// back off but keep draining, the poller is still feeding the channel
					logger.Log.Debug("processor unavailable", zap.Duration("retry-after", errUnavailable.RetryAfter))
					time.Sleep(errUnavailable.RetryAfter)
				default:
					// not yet succeeded and similar outcomes wait for the next pass
					logger.Log.Debug("payment not reconciled", zap.String("number", order.Number), zap.Error(err))
				}
			}
		}
	}
}

// GetOrdersForReconcile feeds unpaid orders carrying a payment reference
// into orderCh
func (ps *PaymentService) GetOrdersForReconcile(ctx context.Context, orderCh chan<- models.Order) error {
	orders, err := ps.repo.ListUnpaidWithReference(ctx)
	if err != nil {
		return err
	}

	for _, order := range orders {
		orderCh <- order
	}

	return nil
}
