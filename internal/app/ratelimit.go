package app

import (
	"context"

	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

// RateLimiter is the minimal limiter surface the dispatchers need. Order
// submissions peek first and charge only after the order is persisted, so
// rejected and retried submissions never consume budget. Bell rings charge
// on every attempt.
type RateLimiter interface {
	PeekOrder(ctx context.Context, sessionHash, venueID string) (domain.RateLimitDecision, error)
	ChargeOrder(ctx context.Context, sessionHash, venueID string) error
	HitBell(ctx context.Context, sessionHash, venueID string) (domain.RateLimitDecision, error)
}
