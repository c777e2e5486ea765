package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rookgm/kitchenflow/internal/models"
)

type OrderService interface {
	// Create submits a new customer order
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetByNumber returns order by its human-readable number
	GetByNumber(ctx context.Context, number string) (*models.Order, error)
	// List returns orders, optionally filtered by status
	List(ctx context.Context, statusFilter string) ([]models.Order, error)
	// History returns the transition audit trail of an order
	History(ctx context.Context, number string) ([]models.StatusLog, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type createOrderItemReq struct {
	Name         string   `json:"name"`
	UnitPrice    float64  `json:"unit_price"`
	Quantity     int      `json:"quantity"`
	Modifiers    []string `json:"modifiers"`
	Instructions *string  `json:"instructions"`
}

type createOrderReq struct {
	CustomerName     string               `json:"customer_name"`
	CustomerPhone    string               `json:"customer_phone"`
	PickupTime       *time.Time           `json:"pickup_time"`
	Instructions     *string              `json:"instructions"`
	PaymentReference *string              `json:"payment_reference"`
	Items            []createOrderItemReq `json:"items"`
}

// CreateOrder submits a new customer order
// 201 — order accepted, body is the persisted order.
// 400 — malformed request or empty item list.
// 500 — internal error.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := createOrderReq{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		items := make([]models.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, models.OrderItem{
				Name:         item.Name,
				UnitPrice:    models.MoneyFromFloat(item.UnitPrice),
				Quantity:     item.Quantity,
				Modifiers:    item.Modifiers,
				Instructions: item.Instructions,
			})
		}

		order := models.Order{
			CustomerName:     req.CustomerName,
			CustomerPhone:    req.CustomerPhone,
			PickupTime:       req.PickupTime,
			Instructions:     req.Instructions,
			PaymentReference: req.PaymentReference,
			Items:            items,
		}

		created, err := oh.svc.Create(r.Context(), &order)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newOrderResponse(created))
	}
}

// GetOrder returns one order by number
// 200 — order found.
// 404 — unknown order.
// 422 — malformed order number.
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := chi.URLParam(r, "number")

		order, err := oh.svc.GetByNumber(r.Context(), number)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newOrderResponse(order))
	}
}

// ListOrders returns orders for the polling clients, optionally filtered
// by ?status=
// 200 — list returned, possibly empty.
// 400 — unknown status filter.
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statusFilter := r.URL.Query().Get("status")

		orders, err := oh.svc.List(r.Context(), statusFilter)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, newOrderResponse(&orders[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type statusLogResponse struct {
	Status    string `json:"status"`
	ChangedBy string `json:"changed_by"`
	ChangedAt string `json:"changed_at"`
}

// GetOrderHistory returns the transition audit trail of an order
func (oh *OrderHandler) GetOrderHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := chi.URLParam(r, "number")

		log, err := oh.svc.History(r.Context(), number)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]statusLogResponse, 0, len(log))
		for _, entry := range log {
			resp = append(resp, statusLogResponse{
				Status:    entry.Status,
				ChangedBy: string(entry.ChangedBy),
				ChangedAt: entry.ChangedAt.Format(time.RFC3339),
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
