package service

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/phedde/luhn-algorithm"
	"github.com/rookgm/kitchenflow/internal/models"
	"github.com/rookgm/kitchenflow/internal/workflow"
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new order with items and initial status log
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByID returns order with items by id
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// GetOrderByNumber returns order with items by number
	GetOrderByNumber(ctx context.Context, number string) (*models.Order, error)
	// ListOrders returns orders, optionally filtered by status
	ListOrders(ctx context.Context, statusFilter string) ([]models.Order, error)
	// ListUnpaidWithReference returns pending unpaid orders carrying a payment reference
	ListUnpaidWithReference(ctx context.Context) ([]models.Order, error)
	// UpdateOrderStatus performs the conditional status write
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, expected, next, tsColumn string, role models.ActorRole) (*models.Order, error)
	// MarkOrderPaid records a confirmed payment on the order
	MarkOrderPaid(ctx context.Context, id uuid.UUID, method, reference string) (*models.Order, error)
	// GetStatusLog returns the transition audit trail of an order
	GetStatusLog(ctx context.Context, id uuid.UUID) ([]models.StatusLog, error)
}

// OrderService handles order intake and read access
type OrderService struct {
	repo OrderRepository
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// Create submits a new customer order. Status starts at pending, payment
// at unpaid; the total is computed from the item snapshots.
func (os *OrderService) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if len(order.Items) == 0 {
		return nil, models.ErrEmptyOrder
	}

	order.ID = uuid.New()
	order.Status = models.OrderStatusPending
	order.PaymentStatus = models.PaymentStatusUnpaid

	var total models.Money
	for _, item := range order.Items {
		total += item.UnitPrice * models.Money(item.Quantity)
	}
	order.Total = total

	return os.repo.CreateOrder(ctx, order)
}

// GetByNumber returns order by its human-readable number
func (os *OrderService) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	num, err := strconv.ParseInt(number, 10, 64)
	if err != nil {
		return nil, models.ErrInvalidOrderNumber
	}
	// check order number using Luhn algorithm
	if ok := luhn.IsValid(num); !ok {
		return nil, models.ErrInvalidOrderNumber
	}

	return os.repo.GetOrderByNumber(ctx, number)
}

// List returns orders, optionally filtered by status
func (os *OrderService) List(ctx context.Context, statusFilter string) ([]models.Order, error) {
	if statusFilter != "" && !workflow.IsValidStatus(statusFilter) {
		return nil, models.ErrInvalidStatus
	}

	return os.repo.ListOrders(ctx, statusFilter)
}

// History returns the transition audit trail of an order
func (os *OrderService) History(ctx context.Context, number string) ([]models.StatusLog, error) {
	order, err := os.repo.GetOrderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	return os.repo.GetStatusLog(ctx, order.ID)
}
