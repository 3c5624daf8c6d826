package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

// AuditRepository owns the append-only audit_log table. Nothing here updates
// or deletes rows.
type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) AppendAudit(ctx context.Context, entry domain.AuditEntry) error {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	const stmt = `
INSERT INTO audit_log (id, event_type, session_hash, venue_id, status, reason_code, ip_address, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, stmt,
		entry.ID, entry.EventType, entry.SessionHash, entry.VenueID,
		entry.Status, entry.Reason, entry.IPAddress, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListAuditByVenue(ctx context.Context, venueID string, limit int) ([]domain.AuditEntry, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	const query = `
SELECT id, event_type, session_hash, venue_id, status, reason_code, ip_address, created_at
FROM audit_log
WHERE venue_id = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.pool.Query(ctx, query, venueID, limit)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrVenueNotFound
		}
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.EventType, &e.SessionHash, &e.VenueID, &e.Status, &e.Reason, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrVenueNotFound
		}
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return out, nil
}
