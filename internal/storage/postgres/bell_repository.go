package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

type BellRepository struct {
	pool *pgxpool.Pool
}

func NewBellRepository(pool *pgxpool.Pool) *BellRepository {
	return &BellRepository{pool: pool}
}

func (r *BellRepository) CreateBell(ctx context.Context, bell domain.BellRequest) error {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	const stmt = `
INSERT INTO bell_requests (id, venue_id, table_identifier, status, session_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, stmt,
		bell.ID, bell.VenueID, bell.TableIdentifier, bell.Status, bell.SessionID, bell.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidUUID(err) {
			return domain.ErrVenueNotFound
		}
		return fmt.Errorf("create bell request: %w", err)
	}
	return nil
}
