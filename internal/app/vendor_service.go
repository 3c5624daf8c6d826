package app

import (
	"context"

	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

type VendorRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetOrderStatusForUpdate(ctx context.Context, orderID string) (domain.OrderStatus, error)
	SetOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) error
	ListOrdersByVenue(ctx context.Context, venueID string, limit int) ([]domain.Order, error)
	GetBellStatusForUpdate(ctx context.Context, bellID string) (domain.BellStatus, error)
	SetBellStatus(ctx context.Context, bellID string, from, to domain.BellStatus) error
	ListOpenBellsByVenue(ctx context.Context, venueID string) ([]domain.BellRequest, error)
}

// VendorService is the single application path through which order and bell
// statuses change; every transition is validated against the state machine
// before the conditional write.
type VendorService struct {
	repo VendorRepository
}

func NewVendorService(repo VendorRepository) *VendorService {
	return &VendorService{repo: repo}
}

func (s *VendorService) UpdateOrderStatus(ctx context.Context, orderID string, next domain.OrderStatus) (domain.OrderStatus, error) {
	if orderID == "" {
		return "", domain.ErrInvalidID
	}
	if !domain.ValidOrderStatus(next) {
		return "", domain.ErrInvalidStatus
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetOrderStatusForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if !current.CanTransition(next) {
			return domain.ErrInvalidStatusTransition
		}
		if current == next {
			return nil
		}
		return s.repo.SetOrderStatus(txCtx, orderID, current, next)
	})
	if err != nil {
		return "", err
	}
	return next, nil
}

func (s *VendorService) UpdateBellStatus(ctx context.Context, bellID string, next domain.BellStatus) (domain.BellStatus, error) {
	if bellID == "" {
		return "", domain.ErrInvalidID
	}
	if !domain.ValidBellStatus(next) {
		return "", domain.ErrInvalidStatus
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetBellStatusForUpdate(txCtx, bellID)
		if err != nil {
			return err
		}
		if !current.CanTransition(next) {
			return domain.ErrInvalidStatusTransition
		}
		if current == next {
			return nil
		}
		return s.repo.SetBellStatus(txCtx, bellID, current, next)
	})
	if err != nil {
		return "", err
	}
	return next, nil
}

// ListOrders returns the newest orders for a venue, lines included.
func (s *VendorService) ListOrders(ctx context.Context, venueID string, limit int) ([]domain.Order, error) {
	if venueID == "" {
		return nil, domain.ErrVenueRequired
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListOrdersByVenue(ctx, venueID, limit)
}

// ListOpenBells returns pending and acknowledged bell requests for a venue.
func (s *VendorService) ListOpenBells(ctx context.Context, venueID string) ([]domain.BellRequest, error) {
	if venueID == "" {
		return nil, domain.ErrVenueRequired
	}
	return s.repo.ListOpenBellsByVenue(ctx, venueID)
}
