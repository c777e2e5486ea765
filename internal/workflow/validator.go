// Package workflow decides which order status transitions are legal for
// which actor role. It is pure: no I/O, no clock, no store access.
package workflow

import (
	"github.com/rookgm/kitchenflow/internal/models"
)

// timestamp columns stamped on entering a status
const (
	ColumnAcknowledgedAt = "acknowledged_at"
	ColumnPreparingAt    = "preparing_at"
	ColumnReadyAt        = "ready_at"
	ColumnCompletedAt    = "completed_at"
)

// Result is a permitted transition. TimestampColumn is the audit column to
// stamp together with the status change, empty for statuses that carry no
// dedicated timestamp (confirmed, cancelled).
type Result struct {
	TimestampColumn string
}

// transitions is the full directed graph of permitted status moves,
// regardless of who requests them.
var transitions = map[string]map[string]bool{
	models.OrderStatusPending: {
		models.OrderStatusConfirmed: true,
		models.OrderStatusCancelled: true,
	},
	models.OrderStatusConfirmed: {
		models.OrderStatusAcknowledged: true,
		models.OrderStatusCancelled:    true,
	},
	models.OrderStatusAcknowledged: {
		models.OrderStatusPreparing: true,
		models.OrderStatusCancelled: true,
	},
	models.OrderStatusPreparing: {
		models.OrderStatusReady: true,
	},
	models.OrderStatusReady: {
		models.OrderStatusCompleted: true,
	},
	models.OrderStatusCompleted: {},
	models.OrderStatusCancelled: {},
}

// roleTransitions partitions the graph between the two roles: for each role
// and current status, the set of next statuses that role owns. A status
// missing from a role's map means the role may not act on orders in that
// status at all.
var roleTransitions = map[models.ActorRole]map[string]map[string]bool{
	models.RoleFOH: {
		models.OrderStatusPending: {
			models.OrderStatusConfirmed: true,
			models.OrderStatusCancelled: true,
		},
		models.OrderStatusConfirmed: {
			models.OrderStatusCancelled: true,
		},
		models.OrderStatusAcknowledged: {
			models.OrderStatusCancelled: true,
		},
		models.OrderStatusReady: {
			models.OrderStatusCompleted: true,
		},
	},
	models.RoleBOH: {
		models.OrderStatusConfirmed: {
			models.OrderStatusAcknowledged: true,
		},
		models.OrderStatusAcknowledged: {
			models.OrderStatusPreparing: true,
		},
		models.OrderStatusPreparing: {
			models.OrderStatusReady: true,
		},
	},
}

// timestampColumns maps a target status to the audit column set on entry
var timestampColumns = map[string]string{
	models.OrderStatusAcknowledged: ColumnAcknowledgedAt,
	models.OrderStatusPreparing:    ColumnPreparingAt,
	models.OrderStatusReady:        ColumnReadyAt,
	models.OrderStatusCompleted:    ColumnCompletedAt,
}

// Validate decides whether role may move an order from current to requested.
//
// Checks run in order:
//  1. requested must be an edge from current in the transition graph,
//     otherwise ErrInvalidTransition. Re-requesting the current status is
//     also ErrInvalidTransition: transitions are not idempotent, a client
//     that timed out must re-read before retrying.
//  2. current must be a status the role acts on at all, otherwise
//     ErrOutOfWorkflow (e.g. kitchen touching an order not yet released).
//  3. the edge must belong to the role, otherwise ErrRoleForbidden.
//  4. confirming requires the order to be paid, otherwise ErrPaymentRequired.
func Validate(current, requested string, role models.ActorRole, paymentStatus string) (Result, error) {
	if !transitions[current][requested] {
		return Result{}, models.ErrInvalidTransition
	}

	owned, ok := roleTransitions[role][current]
	if !ok {
		return Result{}, models.ErrOutOfWorkflow
	}
	if !owned[requested] {
		return Result{}, models.ErrRoleForbidden
	}

	if requested == models.OrderStatusConfirmed && paymentStatus != models.PaymentStatusPaid {
		return Result{}, models.ErrPaymentRequired
	}

	return Result{TimestampColumn: timestampColumns[requested]}, nil
}

// IsValidStatus reports whether s is a known order status
func IsValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether s has no outgoing transitions
func IsTerminal(s string) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}
