package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := withDeadline(ctx)
	defer cancel()
	return withTx(ctx, r.pool, fn)
}

const orderColumns = `id, venue_id, table_identifier, status, payment_method, payment_status, total_amount, idempotency_key, session_id, created_at`

func (r *OrderRepository) FindOrderByIdempotencyKey(ctx context.Context, sessionID, venueID, key string) (*domain.Order, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	query := fmt.Sprintf(`
SELECT %s
FROM orders
WHERE session_id = $1 AND venue_id = $2 AND idempotency_key = $3`, orderColumns)

	var o domain.Order
	err := r.queryRow(ctx, query, sessionID, venueID, key).Scan(
		&o.ID, &o.VenueID, &o.TableIdentifier, &o.Status, &o.PaymentMethod,
		&o.PaymentStatus, &o.TotalAmount, &o.IdempotencyKey, &o.SessionID, &o.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrVenueNotFound
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find order by idempotency key: %w", err)
	}

	lines, err := loadOrderLines(ctx, r, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[o.ID]
	return &o, nil
}

// CreateOrder inserts the order row and all its lines. The caller wraps it
// in a transaction so an order is never observable without its lines.
func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const orderStmt = `
INSERT INTO orders (id, venue_id, table_identifier, status, payment_method, payment_status, total_amount, idempotency_key, session_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, orderStmt,
		order.ID, order.VenueID, order.TableIdentifier, order.Status, order.PaymentMethod,
		order.PaymentStatus, order.TotalAmount, order.IdempotencyKey, order.SessionID, order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrIdempotencyConflict
		}
		if isForeignKeyViolation(err) || isInvalidUUID(err) {
			return domain.ErrVenueNotFound
		}
		return fmt.Errorf("create order: %w", err)
	}

	const lineStmt = `
INSERT INTO order_items (id, order_id, position, menu_item_id, unit_price, quantity, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for i, line := range order.Lines {
		_, err := r.exec(ctx, lineStmt, line.ID, order.ID, i, line.MenuItemID, line.UnitPrice, line.Quantity, line.Notes)
		if err != nil {
			return fmt.Errorf("create order line: %w", err)
		}
	}
	return nil
}

type rowQuerier interface {
	exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// loadOrderLines fetches the lines of the given orders in one query, keyed
// by order id.
func loadOrderLines(ctx context.Context, q rowQuerier, orderIDs []string) (map[string][]domain.OrderLine, error) {
	if len(orderIDs) == 0 {
		return map[string][]domain.OrderLine{}, nil
	}

	const query = `
SELECT id, order_id, menu_item_id, unit_price, quantity, notes
FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY position`

	rows, err := q.query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.OrderLine, len(orderIDs))
	for rows.Next() {
		var line domain.OrderLine
		var orderID string
		if err := rows.Scan(&line.ID, &orderID, &line.MenuItemID, &line.UnitPrice, &line.Quantity, &line.Notes); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		out[orderID] = append(out[orderID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	return out, nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
