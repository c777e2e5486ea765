package service

import (
	"context"

	"github.com/rookgm/kitchenflow/internal/logger"
	"github.com/rookgm/kitchenflow/internal/models"
	"github.com/rookgm/kitchenflow/internal/workflow"
	"go.uber.org/zap"
)

// WorkflowService applies validated status transitions to orders
type WorkflowService struct {
	repo OrderRepository
}

// NewWorkflowService creates new WorkflowService instance
func NewWorkflowService(repo OrderRepository) *WorkflowService {
	return &WorkflowService{repo: repo}
}

// RequestTransition moves the order identified by number to requested on
// behalf of role.
//
// The algorithm is read, validate, conditional write: the status update
// only lands if the stored status still equals the one read here. A
// concurrent actor winning the race surfaces as ErrConflict and the caller
// must re-read before deciding to retry; transitions are not idempotent,
// so a blind retry is never safe.
func (ws *WorkflowService) RequestTransition(ctx context.Context, number, requested string, role models.ActorRole) (*models.Order, error) {
	if !workflow.IsValidStatus(requested) {
		return nil, models.ErrInvalidStatus
	}

	order, err := ws.repo.GetOrderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	res, err := workflow.Validate(order.Status, requested, role, order.PaymentStatus)
	if err != nil {
		return nil, err
	}

	updated, err := ws.repo.UpdateOrderStatus(ctx, order.ID, order.Status, requested, res.TimestampColumn, role)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("order transition applied",
		zap.String("number", updated.Number),
		zap.String("from", order.Status),
		zap.String("to", updated.Status),
		zap.String("role", string(role)))

	return updated, nil
}
