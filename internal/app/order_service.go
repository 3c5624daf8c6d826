package app

import (
	"context"
	"errors"
	"log"

	"github.com/ikanisa/dinein-malta-sub006/internal/clock"
	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	FindOrderByIdempotencyKey(ctx context.Context, sessionID, venueID, key string) (*domain.Order, error)
	CreateOrder(ctx context.Context, order domain.Order) error
}

// OrderService is the submission dispatcher for orders: structural
// validation, idempotency, rate limiting, price recomputation, persistence
// and audit, in that order.
type OrderService struct {
	repo    OrderRepository
	pricing *PriceAuthority
	limiter RateLimiter
	audit   *AuditLogger
	clock   clock.Clock
	logger  *log.Logger
}

func NewOrderService(repo OrderRepository, pricing *PriceAuthority, limiter RateLimiter, audit *AuditLogger, clk clock.Clock, logger *log.Logger) *OrderService {
	if logger == nil {
		logger = log.Default()
	}
	return &OrderService{
		repo:    repo,
		pricing: pricing,
		limiter: limiter,
		audit:   audit,
		clock:   clk,
		logger:  logger,
	}
}

type SubmitOrderInput struct {
	VenueID         string
	Lines           []LineInput
	PaymentMethod   domain.PaymentMethod
	TableIdentifier string
	IdempotencyKey  string
	SessionID       string
	ClientIP        string
}

type SubmitOrderResult struct {
	Order   domain.Order
	Created bool
}

func (s *OrderService) Submit(ctx context.Context, in SubmitOrderInput) (SubmitOrderResult, error) {
	if in.VenueID == "" {
		return SubmitOrderResult{}, domain.ErrVenueRequired
	}
	if len(in.Lines) == 0 {
		return SubmitOrderResult{}, domain.ErrEmptyOrder
	}
	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		return SubmitOrderResult{}, domain.ErrInvalidPaymentMethod
	}

	sessionHash := domain.SessionHash(in.SessionID, in.ClientIP)

	// Idempotent retries short-circuit before the rate-limit check so a safe
	// retry never consumes budget.
	if in.IdempotencyKey != "" {
		existing, err := s.repo.FindOrderByIdempotencyKey(ctx, in.SessionID, in.VenueID, in.IdempotencyKey)
		if err != nil {
			return SubmitOrderResult{}, err
		}
		if existing != nil {
			return SubmitOrderResult{Order: *existing, Created: false}, nil
		}
	}

	dec, err := s.limiter.PeekOrder(ctx, sessionHash, in.VenueID)
	if err != nil {
		// The database stays authoritative when the limiter store is down.
		s.logger.Printf("WARN: rate limit peek failed venue=%s: %v", in.VenueID, err)
		dec = domain.RateLimitDecision{Allowed: true}
	}
	if !dec.Allowed {
		s.audit.Record(ctx, domain.AuditEventCreateOrder, sessionHash, in.VenueID, domain.AuditStatusBlocked, domain.AuditReasonRateLimit, in.ClientIP)
		return SubmitOrderResult{}, &domain.RateLimitedError{RetryAfter: dec.RetryAfter}
	}

	lines, total, err := s.pricing.Quote(ctx, in.VenueID, in.Lines)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrItemNotFound):
			s.audit.Record(ctx, domain.AuditEventCreateOrder, sessionHash, in.VenueID, domain.AuditStatusRejected, domain.AuditReasonItemNotFound, in.ClientIP)
		case errors.Is(err, domain.ErrItemUnavailable):
			s.audit.Record(ctx, domain.AuditEventCreateOrder, sessionHash, in.VenueID, domain.AuditStatusRejected, domain.AuditReasonItemUnavailable, in.ClientIP)
		}
		return SubmitOrderResult{}, err
	}

	for i := range lines {
		lines[i].ID = newID()
	}

	order := domain.Order{
		ID:              newID(),
		VenueID:         in.VenueID,
		TableIdentifier: in.TableIdentifier,
		Status:          domain.OrderStatusReceived,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   domain.PaymentStatusPending,
		TotalAmount:     total,
		Lines:           lines,
		IdempotencyKey:  in.IdempotencyKey,
		SessionID:       in.SessionID,
		CreatedAt:       s.clock.Now(),
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.CreateOrder(txCtx, order)
	})
	if err != nil {
		// A concurrent retry with the same key wins the insert race; return
		// its row instead of failing.
		if errors.Is(err, domain.ErrIdempotencyConflict) && in.IdempotencyKey != "" {
			existing, findErr := s.repo.FindOrderByIdempotencyKey(ctx, in.SessionID, in.VenueID, in.IdempotencyKey)
			if findErr != nil {
				return SubmitOrderResult{}, findErr
			}
			if existing != nil {
				return SubmitOrderResult{Order: *existing, Created: false}, nil
			}
		}
		return SubmitOrderResult{}, err
	}

	if err := s.limiter.ChargeOrder(ctx, sessionHash, in.VenueID); err != nil {
		s.logger.Printf("WARN: rate limit charge failed venue=%s: %v", in.VenueID, err)
	}
	s.audit.Record(ctx, domain.AuditEventCreateOrder, sessionHash, in.VenueID, domain.AuditStatusSuccess, domain.AuditReasonNone, in.ClientIP)

	return SubmitOrderResult{Order: order, Created: true}, nil
}
