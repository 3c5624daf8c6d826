// Package ratelimit enforces the per-session submission policies on atomic
// counters, so the check-and-record step cannot race the way a count-rows-
// then-insert approach does.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/ikanisa/dinein-malta-sub006/internal/config"
	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

// Limiter applies two policies: order submissions charge only after the
// order is accepted (peek first, charge later), bell rings charge on every
// attempt.
type Limiter struct {
	orders *limiter.Limiter
	bells  *limiter.Limiter
}

func New(store limiter.Store, limits config.Limits) *Limiter {
	return &Limiter{
		orders: limiter.New(store, limiter.Rate{
			Period: limits.OrderWindow,
			Limit:  int64(limits.MaxOrdersPerWindow),
		}),
		bells: limiter.New(store, limiter.Rate{
			Period: limits.BellWindow,
			Limit:  int64(limits.MaxBellPerWindow),
		}),
	}
}

// NewMemoryStore returns an in-process store, used in tests.
func NewMemoryStore() limiter.Store {
	return memory.NewStore()
}

// NewRedisStore returns a store on the shared Redis instance, so limits hold
// across api replicas.
func NewRedisStore(client *redis.Client) (limiter.Store, error) {
	return sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   "dinein:ratelimit",
		MaxRetry: 3,
	})
}

// PeekOrder checks the order budget without consuming it.
func (l *Limiter) PeekOrder(ctx context.Context, sessionHash, venueID string) (domain.RateLimitDecision, error) {
	lctx, err := l.orders.Peek(ctx, key(sessionHash, venueID, "order"))
	if err != nil {
		return domain.RateLimitDecision{}, err
	}
	return domain.RateLimitDecision{
		Allowed:    lctx.Remaining > 0,
		RetryAfter: untilReset(lctx),
	}, nil
}

// ChargeOrder consumes one unit of the order budget after a successful
// submission.
func (l *Limiter) ChargeOrder(ctx context.Context, sessionHash, venueID string) error {
	_, err := l.orders.Increment(ctx, key(sessionHash, venueID, "order"), 1)
	return err
}

// HitBell charges the bell budget and reports whether the attempt is within
// it. The attempt consuming the last unit is still allowed.
func (l *Limiter) HitBell(ctx context.Context, sessionHash, venueID string) (domain.RateLimitDecision, error) {
	lctx, err := l.bells.Get(ctx, key(sessionHash, venueID, "bell"))
	if err != nil {
		return domain.RateLimitDecision{}, err
	}
	return domain.RateLimitDecision{
		Allowed:    !lctx.Reached,
		RetryAfter: untilReset(lctx),
	}, nil
}

func key(sessionHash, venueID, action string) string {
	return sessionHash + ":" + venueID + ":" + action
}

func untilReset(lctx limiter.Context) time.Duration {
	d := time.Until(time.Unix(lctx.Reset, 0))
	if d < time.Second {
		d = time.Second
	}
	return d
}
