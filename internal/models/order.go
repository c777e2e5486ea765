package models

import (
	"time"

	"github.com/google/uuid"
)

// order status
const (
	OrderStatusPending      = "pending"
	OrderStatusConfirmed    = "confirmed"
	OrderStatusAcknowledged = "acknowledged"
	OrderStatusPreparing    = "preparing"
	OrderStatusReady        = "ready"
	OrderStatusCompleted    = "completed"
	OrderStatusCancelled    = "cancelled"
)

// payment status
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// ActorRole identifies which side of the pass an actor works
type ActorRole string

const (
	// RoleFOH is front of house staff: intake, confirmation, completion, cancellation
	RoleFOH ActorRole = "foh"
	// RoleBOH is kitchen stations: the food preparation stages only
	RoleBOH ActorRole = "boh"
)

// Order is order entity
type Order struct {
	ID               uuid.UUID
	Number           string
	Status           string
	PaymentStatus    string
	PaymentMethod    *string
	PaymentReference *string
	CustomerName     string
	CustomerPhone    string
	PickupTime       *time.Time
	Instructions     *string
	Total            Money
	Items            []OrderItem
	CreatedAt        time.Time
	AcknowledgedAt   *time.Time
	PreparingAt      *time.Time
	ReadyAt          *time.Time
	CompletedAt      *time.Time
}

// OrderItem is a line item owned by one order. Name and unit price are
// snapshots taken at order creation so historical orders are not affected
// by later menu edits.
type OrderItem struct {
	ID           uint64
	OrderID      uuid.UUID
	Name         string
	UnitPrice    Money
	Quantity     int
	Modifiers    []string
	Instructions *string
}

// StatusLog is one row of the order transition audit trail
type StatusLog struct {
	ID        uint64
	OrderID   uuid.UUID
	Status    string
	ChangedBy ActorRole
	ChangedAt time.Time
}
