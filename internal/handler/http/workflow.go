package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rookgm/kitchenflow/internal/models"
)

type WorkflowService interface {
	// RequestTransition moves the order to requested on behalf of role
	RequestTransition(ctx context.Context, number, requested string, role models.ActorRole) (*models.Order, error)
}

// WorkflowHandler represents HTTP handler for order status transitions
type WorkflowHandler struct {
	svc WorkflowService
}

// NewWorkflowHandler creates new WorkflowHandler instance
func NewWorkflowHandler(svc WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{svc: svc}
}

type transitionReq struct {
	Status string `json:"status"`
}

// RequestTransition applies one status transition on behalf of the
// channel's resolved role
// 200 — transition applied, body is the updated order.
// 400 — malformed request.
// 402 — order is not paid yet.
// 403 — transition outside the channel's workflow.
// 404 — unknown order.
// 409 — transition not valid from the current status, or a concurrent
// actor won the race; the client must re-read before retrying.
func (wh *WorkflowHandler) RequestTransition() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := getActorRole(r.Context())
		if !ok {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		number := chi.URLParam(r, "number")

		req := transitionReq{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		order, err := wh.svc.RequestTransition(r.Context(), number, req.Status, role)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newOrderResponse(order))
	}
}
