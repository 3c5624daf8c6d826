package app

import (
	"context"

	"github.com/ikanisa/dinein-malta-sub006/internal/clock"
	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

type BellRepository interface {
	CreateBell(ctx context.Context, bell domain.BellRequest) error
}

// BellService dispatches waiter calls. Unlike orders, every attempt charges
// the rate limit: a bell has no monetary value to protect but high nuisance
// potential.
type BellService struct {
	repo    BellRepository
	limiter RateLimiter
	audit   *AuditLogger
	clock   clock.Clock
}

func NewBellService(repo BellRepository, limiter RateLimiter, audit *AuditLogger, clk clock.Clock) *BellService {
	return &BellService{
		repo:    repo,
		limiter: limiter,
		audit:   audit,
		clock:   clk,
	}
}

type RingBellInput struct {
	VenueID         string
	TableIdentifier string
	SessionID       string
	ClientIP        string
}

func (s *BellService) Ring(ctx context.Context, in RingBellInput) (domain.BellRequest, error) {
	if in.VenueID == "" {
		return domain.BellRequest{}, domain.ErrVenueRequired
	}
	if in.TableIdentifier == "" {
		return domain.BellRequest{}, domain.ErrTableRequired
	}

	sessionHash := domain.SessionHash(in.SessionID, in.ClientIP)

	dec, err := s.limiter.HitBell(ctx, sessionHash, in.VenueID)
	if err != nil {
		return domain.BellRequest{}, err
	}
	if !dec.Allowed {
		s.audit.Record(ctx, domain.AuditEventRingBell, sessionHash, in.VenueID, domain.AuditStatusBlocked, domain.AuditReasonRateLimit, in.ClientIP)
		return domain.BellRequest{}, &domain.RateLimitedError{RetryAfter: dec.RetryAfter}
	}

	bell := domain.BellRequest{
		ID:              newID(),
		VenueID:         in.VenueID,
		TableIdentifier: in.TableIdentifier,
		Status:          domain.BellStatusPending,
		SessionID:       in.SessionID,
		CreatedAt:       s.clock.Now(),
	}

	if err := s.repo.CreateBell(ctx, bell); err != nil {
		return domain.BellRequest{}, err
	}

	s.audit.Record(ctx, domain.AuditEventRingBell, sessionHash, in.VenueID, domain.AuditStatusSuccess, domain.AuditReasonNone, in.ClientIP)
	return bell, nil
}
