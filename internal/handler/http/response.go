package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rookgm/kitchenflow/internal/models"
)

type orderItemResponse struct {
	Name         string   `json:"name"`
	UnitPrice    float64  `json:"unit_price"`
	Quantity     int      `json:"quantity"`
	Modifiers    []string `json:"modifiers,omitempty"`
	Instructions *string  `json:"instructions,omitempty"`
}

type orderResponse struct {
	ID               string              `json:"id"`
	Number           string              `json:"number"`
	Status           string              `json:"status"`
	PaymentStatus    string              `json:"payment_status"`
	PaymentMethod    *string             `json:"payment_method,omitempty"`
	PaymentReference *string             `json:"payment_reference,omitempty"`
	CustomerName     string              `json:"customer_name"`
	CustomerPhone    string              `json:"customer_phone"`
	PickupTime       *string             `json:"pickup_time,omitempty"`
	Instructions     *string             `json:"instructions,omitempty"`
	Total            float64             `json:"total"`
	Items            []orderItemResponse `json:"items"`
	CreatedAt        string              `json:"created_at"`
	AcknowledgedAt   *string             `json:"acknowledged_at,omitempty"`
	PreparingAt      *string             `json:"preparing_at,omitempty"`
	ReadyAt          *string             `json:"ready_at,omitempty"`
	CompletedAt      *string             `json:"completed_at,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			Name:         item.Name,
			UnitPrice:    item.UnitPrice.Float(),
			Quantity:     item.Quantity,
			Modifiers:    item.Modifiers,
			Instructions: item.Instructions,
		})
	}

	return orderResponse{
		ID:               order.ID.String(),
		Number:           order.Number,
		Status:           order.Status,
		PaymentStatus:    order.PaymentStatus,
		PaymentMethod:    order.PaymentMethod,
		PaymentReference: order.PaymentReference,
		CustomerName:     order.CustomerName,
		CustomerPhone:    order.CustomerPhone,
		PickupTime:       formatTime(order.PickupTime),
		Instructions:     order.Instructions,
		Total:            order.Total.Float(),
		Items:            items,
		CreatedAt:        order.CreatedAt.Format(time.RFC3339),
		AcknowledgedAt:   formatTime(order.AcknowledgedAt),
		PreparingAt:      formatTime(order.PreparingAt),
		ReadyAt:          formatTime(order.ReadyAt),
		CompletedAt:      formatTime(order.CompletedAt),
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a service error to an HTTP status and a rejection reason
// specific enough for the staff display
func writeError(w http.ResponseWriter, err error) {
	var notSucceeded models.PaymentNotSucceededError
	var unavailable models.ProcessorUnavailableError

	switch {
	case errors.Is(err, models.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: err.Error()})
	case errors.Is(err, models.ErrInvalidOrderNumber):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Code: "invalid_order_number", Message: err.Error()})
	case errors.Is(err, models.ErrInvalidStatus), errors.Is(err, models.ErrEmptyOrder):
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: err.Error()})
	case errors.Is(err, models.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorResponse{Code: "invalid_transition", Message: err.Error()})
	case errors.Is(err, models.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Code: "conflict", Message: err.Error()})
	case errors.Is(err, models.ErrOutOfWorkflow):
		writeJSON(w, http.StatusForbidden, errorResponse{Code: "out_of_workflow", Message: err.Error()})
	case errors.Is(err, models.ErrRoleForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Code: "role_forbidden", Message: err.Error()})
	case errors.Is(err, models.ErrPaymentRequired):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{Code: "payment_required", Message: err.Error()})
	case errors.As(err, &notSucceeded):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{Code: "payment_not_succeeded", Message: err.Error()})
	case errors.Is(err, models.ErrPaymentRefUnknown):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Code: "payment_reference_unknown", Message: err.Error()})
	case errors.Is(err, models.ErrPaymentRefMismatch):
		writeJSON(w, http.StatusConflict, errorResponse{Code: "payment_reference_mismatch", Message: err.Error()})
	case errors.Is(err, models.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "invalid_credentials", Message: err.Error()})
	case errors.As(err, &unavailable):
		writeJSON(w, http.StatusBadGateway, errorResponse{Code: "processor_unavailable", Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "internal_error", Message: "internal error"})
	}
}
