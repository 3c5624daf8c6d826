package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

// VendorRepository serves the vendor portal: status transitions and venue
// feeds. Status writes are conditional on the expected current status, so a
// concurrent update loses cleanly instead of overwriting.
type VendorRepository struct {
	pool *pgxpool.Pool
}

func NewVendorRepository(pool *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{pool: pool}
}

func (r *VendorRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := withDeadline(ctx)
	defer cancel()
	return withTx(ctx, r.pool, fn)
}

func (r *VendorRepository) GetOrderStatusForUpdate(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	const query = `SELECT status FROM orders WHERE id = $1 FOR UPDATE`

	var status domain.OrderStatus
	err := r.queryRow(ctx, query, orderID).Scan(&status)
	if err != nil {
		if isInvalidUUID(err) {
			return "", domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return "", domain.ErrOrderNotFound
		}
		return "", fmt.Errorf("get order status: %w", err)
	}
	return status, nil
}

func (r *VendorRepository) SetOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) error {
	const stmt = `UPDATE orders SET status = $3 WHERE id = $1 AND status = $2`

	tag, err := r.exec(ctx, stmt, orderID, from, to)
	if err != nil {
		if isTransitionGuard(err) {
			return domain.ErrInvalidStatusTransition
		}
		return fmt.Errorf("set order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// The status moved between read and write; the transition is no
		// longer legal from the caller's observed state.
		return domain.ErrInvalidStatusTransition
	}
	return nil
}

func (r *VendorRepository) ListOrdersByVenue(ctx context.Context, venueID string, limit int) ([]domain.Order, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	query := fmt.Sprintf(`
SELECT %s
FROM orders
WHERE venue_id = $1
ORDER BY created_at DESC
LIMIT $2`, orderColumns)

	rows, err := r.query(ctx, query, venueID, limit)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrVenueNotFound
		}
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []string
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.VenueID, &o.TableIdentifier, &o.Status, &o.PaymentMethod,
			&o.PaymentStatus, &o.TotalAmount, &o.IdempotencyKey, &o.SessionID, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrVenueNotFound
		}
		return nil, fmt.Errorf("list orders: %w", err)
	}

	lines, err := loadOrderLines(ctx, r, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}
	return orders, nil
}

func (r *VendorRepository) GetBellStatusForUpdate(ctx context.Context, bellID string) (domain.BellStatus, error) {
	const query = `SELECT status FROM bell_requests WHERE id = $1 FOR UPDATE`

	var status domain.BellStatus
	err := r.queryRow(ctx, query, bellID).Scan(&status)
	if err != nil {
		if isInvalidUUID(err) {
			return "", domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return "", domain.ErrBellNotFound
		}
		return "", fmt.Errorf("get bell status: %w", err)
	}
	return status, nil
}

func (r *VendorRepository) SetBellStatus(ctx context.Context, bellID string, from, to domain.BellStatus) error {
	const stmt = `UPDATE bell_requests SET status = $3 WHERE id = $1 AND status = $2`

	tag, err := r.exec(ctx, stmt, bellID, from, to)
	if err != nil {
		if isTransitionGuard(err) {
			return domain.ErrInvalidStatusTransition
		}
		return fmt.Errorf("set bell status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidStatusTransition
	}
	return nil
}

func (r *VendorRepository) ListOpenBellsByVenue(ctx context.Context, venueID string) ([]domain.BellRequest, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	const query = `
SELECT id, venue_id, table_identifier, status, session_id, created_at
FROM bell_requests
WHERE venue_id = $1 AND status IN ('pending', 'acknowledged')
ORDER BY created_at`

	rows, err := r.query(ctx, query, venueID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrVenueNotFound
		}
		return nil, fmt.Errorf("list bell requests: %w", err)
	}
	defer rows.Close()

	var bells []domain.BellRequest
	for rows.Next() {
		var b domain.BellRequest
		if err := rows.Scan(&b.ID, &b.VenueID, &b.TableIdentifier, &b.Status, &b.SessionID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bell request: %w", err)
		}
		bells = append(bells, b)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrVenueNotFound
		}
		return nil, fmt.Errorf("list bell requests: %w", err)
	}
	return bells, nil
}

func (r *VendorRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *VendorRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *VendorRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
