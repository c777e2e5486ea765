package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/phedde/luhn-algorithm"
	"github.com/rookgm/kitchenflow/internal/models"
	"github.com/rookgm/kitchenflow/internal/repository/postgres"
	"github.com/rookgm/kitchenflow/internal/workflow"
)

const pgErrUniqueViolationCode = "23505"

const (
	orderColumns = `id, number, status, payment_status, payment_method, payment_reference,
						customer_name, customer_phone, pickup_time, instructions,
						(total * 100)::bigint, created_at, acknowledged_at, preparing_at, ready_at, completed_at`

	nextOrderNumberQuery = `SELECT nextval('order_number_seq')`

	insertOrderQuery = `
						INSERT INTO orders (id, number, status, payment_status, payment_reference,
						                    customer_name, customer_phone, pickup_time, instructions, total)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::numeric/100)
						RETURNING created_at
`
	insertOrderItemQuery = `
						INSERT INTO order_items (order_id, name, unit_price, quantity, modifiers, instructions)
						VALUES ($1, $2, $3::numeric/100, $4, $5, $6)
						RETURNING id
`
	insertStatusLogQuery = `
						INSERT INTO order_status_log (order_id, status, changed_by)
						VALUES ($1, $2, $3)
`
	selectOrderByIDQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE id = $1
`
	selectOrderByNumberQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE number = $1
`
	selectOrdersQuery = `
						SELECT ` + orderColumns + ` FROM orders
						ORDER BY created_at DESC
`
	selectOrdersByStatusQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE status = $1
						ORDER BY created_at ASC
`
	selectUnpaidWithReferenceQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE payment_status = 'unpaid' AND payment_reference IS NOT NULL
						  AND status = 'pending'
						ORDER BY created_at ASC
`
	selectOrderItemsQuery = `
						SELECT id, order_id, name, (unit_price * 100)::bigint, quantity, modifiers, instructions
						FROM order_items
						WHERE order_id = $1
						ORDER BY id ASC
`
	selectStatusLogQuery = `
						SELECT id, order_id, status, changed_by, changed_at
						FROM order_status_log
						WHERE order_id = $1
						ORDER BY changed_at ASC, id ASC
`
	markOrderPaidQuery = `
						UPDATE orders
						SET payment_status = 'paid', payment_method = $1, payment_reference = $2
						WHERE id = $3 AND payment_status = 'unpaid'
						RETURNING ` + orderColumns + `
`
	updateStatusQuery = `
						UPDATE orders
						SET status = $1
						WHERE id = $2 AND status = $3
						RETURNING ` + orderColumns + `
`
)

// updateStatusStampQueries are the conditional writes that also stamp an
// audit timestamp. COALESCE keeps an already set timestamp untouched, so
// each audit column is written at most once for the lifetime of the order.
var updateStatusStampQueries = map[string]string{
	workflow.ColumnAcknowledgedAt: `
						UPDATE orders
						SET status = $1, acknowledged_at = COALESCE(acknowledged_at, now())
						WHERE id = $2 AND status = $3
						RETURNING ` + orderColumns,
	workflow.ColumnPreparingAt: `
						UPDATE orders
						SET status = $1, preparing_at = COALESCE(preparing_at, now())
						WHERE id = $2 AND status = $3
						RETURNING ` + orderColumns,
	workflow.ColumnReadyAt: `
						UPDATE orders
						SET status = $1, ready_at = COALESCE(ready_at, now())
						WHERE id = $2 AND status = $3
						RETURNING ` + orderColumns,
	workflow.ColumnCompletedAt: `
						UPDATE orders
						SET status = $1, completed_at = COALESCE(completed_at, now())
						WHERE id = $2 AND status = $3
						RETURNING ` + orderColumns,
}

// OrderRepository implements order persistence on postgres
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// scanOrder scans one order row in orderColumns order
func scanOrder(row pgx.Row) (*models.Order, error) {
	order := models.Order{}
	err := row.Scan(&order.ID, &order.Number, &order.Status, &order.PaymentStatus,
		&order.PaymentMethod, &order.PaymentReference,
		&order.CustomerName, &order.CustomerPhone, &order.PickupTime, &order.Instructions,
		&order.Total, &order.CreatedAt,
		&order.AcknowledgedAt, &order.PreparingAt, &order.ReadyAt, &order.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder inserts new order with its items and the initial status log
// row in a single transaction. The order number is drawn from a sequence
// and extended with a Luhn check digit.
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var seq int64
	if err := tx.QueryRow(ctx, nextOrderNumberQuery).Scan(&seq); err != nil {
		return nil, err
	}
	order.Number = strconv.FormatInt(withCheckDigit(seq), 10)

	err = tx.QueryRow(ctx, insertOrderQuery,
		order.ID, order.Number, order.Status, order.PaymentStatus, order.PaymentReference,
		order.CustomerName, order.CustomerPhone, order.PickupTime, order.Instructions,
		int64(order.Total)).Scan(&order.CreatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflict
		}
		return nil, err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.QueryRow(ctx, insertOrderItemQuery,
			order.ID, item.Name, int64(item.UnitPrice), item.Quantity, item.Modifiers, item.Instructions).Scan(&item.ID)
		if err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, insertStatusLogQuery, order.ID, order.Status, "system"); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrderByID returns order with items by id
func (or *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := scanOrder(or.db.QueryRow(ctx, selectOrderByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}

	if order.Items, err = or.getOrderItems(ctx, order.ID); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrderByNumber returns order with items by its human-readable number
func (or *OrderRepository) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	order, err := scanOrder(or.db.QueryRow(ctx, selectOrderByNumberQuery, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}

	if order.Items, err = or.getOrderItems(ctx, order.ID); err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrders returns orders, optionally filtered by status, newest first
// for the unfiltered view and oldest first for a status queue
func (or *OrderRepository) ListOrders(ctx context.Context, statusFilter string) ([]models.Order, error) {
	var rows pgx.Rows
	var err error

	if statusFilter == "" {
		rows, err = or.db.Query(ctx, selectOrdersQuery)
	} else {
		rows, err = or.db.Query(ctx, selectOrdersByStatusQuery, statusFilter)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].Items, err = or.getOrderItems(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// ListUnpaidWithReference returns pending unpaid orders that already carry
// a payment reference, the candidates for payment reconciliation
func (or *OrderRepository) ListUnpaidWithReference(ctx context.Context) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectUnpaidWithReferenceQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateOrderStatus performs the conditional status write: the row is
// updated only if its stored status still equals expected. Zero affected
// rows means a concurrent actor won the race and the caller gets
// ErrConflict. The transition is appended to the status log in the same
// transaction.
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, expected, next, tsColumn string, role models.ActorRole) (*models.Order, error) {
	query := updateStatusQuery
	if tsColumn != "" {
		q, ok := updateStatusStampQueries[tsColumn]
		if !ok {
			return nil, models.ErrInternalError
		}
		query = q
	}

	tx, err := or.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	order, err := scanOrder(tx.QueryRow(ctx, query, next, id, expected))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrConflict
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, insertStatusLogQuery, id, next, string(role)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if order.Items, err = or.getOrderItems(ctx, order.ID); err != nil {
		return nil, err
	}

	return order, nil
}

// MarkOrderPaid records a confirmed payment on the order. The write is
// conditional on payment_status still being unpaid; zero affected rows
// means another delivery of the same confirmation already landed, and the
// caller is expected to re-read.
func (or *OrderRepository) MarkOrderPaid(ctx context.Context, id uuid.UUID, method, reference string) (*models.Order, error) {
	order, err := scanOrder(or.db.QueryRow(ctx, markOrderPaidQuery, method, reference, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrConflict
		}
		return nil, err
	}

	if order.Items, err = or.getOrderItems(ctx, order.ID); err != nil {
		return nil, err
	}

	return order, nil
}

// GetStatusLog returns the transition audit trail of an order
func (or *OrderRepository) GetStatusLog(ctx context.Context, id uuid.UUID) ([]models.StatusLog, error) {
	rows, err := or.db.Query(ctx, selectStatusLogQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	log := []models.StatusLog{}
	for rows.Next() {
		entry := models.StatusLog{}
		if err := rows.Scan(&entry.ID, &entry.OrderID, &entry.Status, &entry.ChangedBy, &entry.ChangedAt); err != nil {
			return nil, err
		}
		log = append(log, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return log, nil
}

// getOrderItems loads line items of one order
func (or *OrderRepository) getOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	rows, err := or.db.Query(ctx, selectOrderItemsQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		item := models.OrderItem{}
		err := rows.Scan(&item.ID, &item.OrderID, &item.Name, &item.UnitPrice, &item.Quantity, &item.Modifiers, &item.Instructions)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// withCheckDigit extends seq with a Luhn check digit so mistyped order
// numbers are caught at the counter
func withCheckDigit(seq int64) int64 {
	for d := int64(0); d <= 9; d++ {
		n := seq*10 + d
		if luhn.IsValid(n) {
			return n
		}
	}
	return seq * 10
}
