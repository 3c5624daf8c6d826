package app

import (
	"context"

	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

// MenuRepository resolves canonical menu prices for a venue.
type MenuRepository interface {
	GetMenuPrices(ctx context.Context, venueID string, itemIDs []string) (map[string]domain.MenuItemPrice, error)
}

// LineInput is a client-submitted order line. Any price the client sends is
// dropped at the transport layer and never reaches pricing.
type LineInput struct {
	MenuItemID string
	Quantity   int
	Notes      string
}

// PriceAuthority recomputes order totals from stored prices. It never
// accepts a price from the caller.
type PriceAuthority struct {
	repo             MenuRepository
	maxLineQuantity  int
	maxDistinctLines int
}

func NewPriceAuthority(repo MenuRepository, maxLineQuantity, maxDistinctLines int) *PriceAuthority {
	return &PriceAuthority{
		repo:             repo,
		maxLineQuantity:  maxLineQuantity,
		maxDistinctLines: maxDistinctLines,
	}
}

// Quote resolves the unit price of every line and returns priced lines plus
// the grand total. Quantities are clamped into [1, maxLineQuantity].
func (p *PriceAuthority) Quote(ctx context.Context, venueID string, lines []LineInput) ([]domain.OrderLine, float64, error) {
	if len(lines) == 0 {
		return nil, 0, domain.ErrEmptyOrder
	}
	if len(lines) > p.maxDistinctLines {
		return nil, 0, domain.ErrTooManyLines
	}

	itemIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.MenuItemID == "" {
			return nil, 0, domain.ErrItemNotFound
		}
		itemIDs = append(itemIDs, line.MenuItemID)
	}

	prices, err := p.repo.GetMenuPrices(ctx, venueID, itemIDs)
	if err != nil {
		return nil, 0, err
	}

	priced := make([]domain.OrderLine, 0, len(lines))
	var total float64
	for _, line := range lines {
		item, ok := prices[line.MenuItemID]
		if !ok {
			return nil, 0, domain.ErrItemNotFound
		}
		if !item.Available {
			return nil, 0, domain.ErrItemUnavailable
		}

		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		if qty > p.maxLineQuantity {
			qty = p.maxLineQuantity
		}

		pricedLine := domain.OrderLine{
			MenuItemID: line.MenuItemID,
			UnitPrice:  item.Price,
			Quantity:   qty,
			Notes:      line.Notes,
		}
		priced = append(priced, pricedLine)
		total += pricedLine.LineTotal()
	}

	return priced, total, nil
}
