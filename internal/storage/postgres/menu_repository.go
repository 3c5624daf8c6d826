package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

type MenuRepository struct {
	pool *pgxpool.Pool
}

func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

// GetMenuPrices reads the canonical current prices of the given items within
// a venue. Items of other venues are simply absent from the result.
func (r *MenuRepository) GetMenuPrices(ctx context.Context, venueID string, itemIDs []string) (map[string]domain.MenuItemPrice, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	const query = `
SELECT id, venue_id, price, available
FROM menu_items
WHERE venue_id = $1 AND id = ANY($2::uuid[])`

	rows, err := r.pool.Query(ctx, query, venueID, itemIDs)
	if err != nil {
		if isInvalidUUID(err) {
			return map[string]domain.MenuItemPrice{}, nil
		}
		return nil, fmt.Errorf("get menu prices: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.MenuItemPrice, len(itemIDs))
	for rows.Next() {
		var p domain.MenuItemPrice
		if err := rows.Scan(&p.MenuItemID, &p.VenueID, &p.Price, &p.Available); err != nil {
			return nil, fmt.Errorf("scan menu price: %w", err)
		}
		out[p.MenuItemID] = p
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return map[string]domain.MenuItemPrice{}, nil
		}
		return nil, fmt.Errorf("get menu prices: %w", err)
	}
	return out, nil
}
