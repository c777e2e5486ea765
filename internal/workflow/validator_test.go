package workflow

import (
	"testing"

	"github.com/rookgm/kitchenflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []string{
	models.OrderStatusPending,
	models.OrderStatusConfirmed,
	models.OrderStatusAcknowledged,
	models.OrderStatusPreparing,
	models.OrderStatusReady,
	models.OrderStatusCompleted,
	models.OrderStatusCancelled,
}

// edge is a permitted transition together with the role that owns it and
// the timestamp column stamped on entry.
type edge struct {
	from, to string
	role     models.ActorRole
	tsColumn string
}

var ownedEdges = []edge{
	{models.OrderStatusPending, models.OrderStatusConfirmed, models.RoleFOH, ""},
	{models.OrderStatusPending, models.OrderStatusCancelled, models.RoleFOH, ""},
	{models.OrderStatusConfirmed, models.OrderStatusCancelled, models.RoleFOH, ""},
	{models.OrderStatusAcknowledged, models.OrderStatusCancelled, models.RoleFOH, ""},
	{models.OrderStatusReady, models.OrderStatusCompleted, models.RoleFOH, ColumnCompletedAt},
	{models.OrderStatusConfirmed, models.OrderStatusAcknowledged, models.RoleBOH, ColumnAcknowledgedAt},
	{models.OrderStatusAcknowledged, models.OrderStatusPreparing, models.RoleBOH, ColumnPreparingAt},
	{models.OrderStatusPreparing, models.OrderStatusReady, models.RoleBOH, ColumnReadyAt},
}

func findOwned(from, to string, role models.ActorRole) *edge {
	for i := range ownedEdges {
		e := &ownedEdges[i]
		if e.from == from && e.to == to && e.role == role {
			return e
		}
	}
	return nil
}

func isEdge(from, to string) bool {
	for _, e := range ownedEdges {
		if e.from == from && e.to == to {
			return true
		}
	}
	return false
}

// TestValidate_ExhaustiveGrid checks every (current, requested, role)
// combination: a transition is allowed iff it is an edge of the graph and
// the requesting role owns it.
func TestValidate_ExhaustiveGrid(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			for _, role := range []models.ActorRole{models.RoleFOH, models.RoleBOH} {
				res, err := Validate(from, to, role, models.PaymentStatusPaid)

				if e := findOwned(from, to, role); e != nil {
					require.NoErrorf(t, err, "%s->%s by %s must be allowed", from, to, role)
					assert.Equal(t, e.tsColumn, res.TimestampColumn)
					continue
				}

				require.Errorf(t, err, "%s->%s by %s must be rejected", from, to, role)
			}
		}
	}
}

func TestValidate_RejectionReasons(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		requested string
		role      models.ActorRole
		wantErr   error
	}{
		{
			name:      "no_op_reacknowledge_is_invalid",
			current:   models.OrderStatusAcknowledged,
			requested: models.OrderStatusAcknowledged,
			role:      models.RoleBOH,
			wantErr:   models.ErrInvalidTransition,
		},
		{
			name:      "boh_skipping_preparing_is_invalid",
			current:   models.OrderStatusAcknowledged,
			requested: models.OrderStatusReady,
			role:      models.RoleBOH,
			wantErr:   models.ErrInvalidTransition,
		},
		{
			name:      "boh_moving_backward_is_invalid",
			current:   models.OrderStatusPreparing,
			requested: models.OrderStatusAcknowledged,
			role:      models.RoleBOH,
			wantErr:   models.ErrInvalidTransition,
		},
		{
			name:      "boh_on_unreleased_order_is_out_of_workflow",
			current:   models.OrderStatusPending,
			requested: models.OrderStatusConfirmed,
			role:      models.RoleBOH,
			wantErr:   models.ErrOutOfWorkflow,
		},
		{
			name:      "boh_completing_is_out_of_workflow",
			current:   models.OrderStatusReady,
			requested: models.OrderStatusCompleted,
			role:      models.RoleBOH,
			wantErr:   models.ErrOutOfWorkflow,
		},
		{
			name:      "foh_acknowledging_is_role_forbidden",
			current:   models.OrderStatusConfirmed,
			requested: models.OrderStatusAcknowledged,
			role:      models.RoleFOH,
			wantErr:   models.ErrRoleForbidden,
		},
		{
			name:      "boh_cancelling_is_role_forbidden",
			current:   models.OrderStatusConfirmed,
			requested: models.OrderStatusCancelled,
			role:      models.RoleBOH,
			wantErr:   models.ErrRoleForbidden,
		},
		{
			name:      "terminal_completed_has_no_edges",
			current:   models.OrderStatusCompleted,
			requested: models.OrderStatusPending,
			role:      models.RoleFOH,
			wantErr:   models.ErrInvalidTransition,
		},
		{
			name:      "terminal_cancelled_has_no_edges",
			current:   models.OrderStatusCancelled,
			requested: models.OrderStatusConfirmed,
			role:      models.RoleFOH,
			wantErr:   models.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.current, tt.requested, tt.role, models.PaymentStatusPaid)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ConfirmRequiresPayment(t *testing.T) {
	_, err := Validate(models.OrderStatusPending, models.OrderStatusConfirmed, models.RoleFOH, models.PaymentStatusUnpaid)
	assert.ErrorIs(t, err, models.ErrPaymentRequired)

	// payment is only checked on the confirm edge
	_, err = Validate(models.OrderStatusPending, models.OrderStatusCancelled, models.RoleFOH, models.PaymentStatusUnpaid)
	assert.NoError(t, err)
}

func TestValidate_CancellationBoundary(t *testing.T) {
	cancellable := map[string]bool{
		models.OrderStatusPending:      true,
		models.OrderStatusConfirmed:    true,
		models.OrderStatusAcknowledged: true,
	}

	for _, from := range allStatuses {
		_, err := Validate(from, models.OrderStatusCancelled, models.RoleFOH, models.PaymentStatusPaid)
		if cancellable[from] {
			assert.NoErrorf(t, err, "cancellation from %s must be allowed", from)
		} else {
			assert.ErrorIsf(t, err, models.ErrInvalidTransition, "cancellation from %s must be invalid", from)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.OrderStatusCompleted))
	assert.True(t, IsTerminal(models.OrderStatusCancelled))
	assert.False(t, IsTerminal(models.OrderStatusPending))
	assert.False(t, IsTerminal("unknown"))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus("PROCESSED"))
	assert.False(t, IsValidStatus(""))
}
