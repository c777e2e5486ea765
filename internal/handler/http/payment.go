package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rookgm/kitchenflow/internal/models"
)

type PaymentService interface {
	// ConfirmPayment verifies reference with the processor and marks the order paid
	ConfirmPayment(ctx context.Context, orderID uuid.UUID, reference string) (*models.Order, error)
}

// PaymentHandler represents HTTP handler for payment confirmations
type PaymentHandler struct {
	svc PaymentService
}

// NewPaymentHandler creates new PaymentHandler instance
func NewPaymentHandler(svc PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type confirmPaymentReq struct {
	OrderID          string `json:"order_id"`
	PaymentReference string `json:"payment_reference"`
}

// ConfirmPayment handles the processor's payment confirmation webhook.
// Redeliveries of an already applied confirmation return 200 with the
// unchanged order.
// 200 — payment captured on the order.
// 400 — malformed request.
// 402 — processor reports the payment has not succeeded.
// 404 — unknown order.
// 422 — payment reference unknown to the processor.
// 502 — processor unreachable, the delivery should be retried.
func (ph *PaymentHandler) ConfirmPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := confirmPaymentReq{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		orderID, err := uuid.Parse(req.OrderID)
		if err != nil || req.PaymentReference == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		order, err := ph.svc.ConfirmPayment(r.Context(), orderID, req.PaymentReference)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newOrderResponse(order))
	}
}
