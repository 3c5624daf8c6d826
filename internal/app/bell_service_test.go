package app

import (
	"context"
	"testing"
	"time"

	"github.com/ikanisa/dinein-malta-sub006/internal/clock"
	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

type fakeBellRepo struct {
	bells     []domain.BellRequest
	createErr error
}

func (f *fakeBellRepo) CreateBell(_ context.Context, bell domain.BellRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.bells = append(f.bells, bell)
	return nil
}

type bellFixture struct {
	repo    *fakeBellRepo
	limiter *fakeLimiter
	audit   *fakeAuditRepo
	svc     *BellService
}

func newBellFixture(now time.Time) bellFixture {
	repo := &fakeBellRepo{}
	limiter := &fakeLimiter{allowOrder: true, allowBell: true}
	auditRepo := &fakeAuditRepo{}
	clk := clock.NewFixed(now)
	svc := NewBellService(repo, limiter, NewAuditLogger(auditRepo, clk, discardLogger()), clk)
	return bellFixture{repo: repo, limiter: limiter, audit: auditRepo, svc: svc}
}

func TestBellServiceRing(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC)

	t.Run("creates a pending bell request", func(t *testing.T) {
		t.Parallel()
		fx := newBellFixture(now)

		bell, err := fx.svc.Ring(context.Background(), RingBellInput{
			VenueID:         "v1",
			TableIdentifier: "7",
			SessionID:       "s1",
			ClientIP:        "10.0.0.1",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if bell.Status != domain.BellStatusPending {
			t.Fatalf("expected pending, got %s", bell.Status)
		}
		if bell.ID == "" {
			t.Fatalf("expected server-generated id")
		}
		if !bell.CreatedAt.Equal(now) {
			t.Fatalf("expected created_at %s, got %s", now, bell.CreatedAt)
		}
		if len(fx.repo.bells) != 1 {
			t.Fatalf("expected one persisted bell, got %d", len(fx.repo.bells))
		}
		if len(fx.audit.entries) != 1 || fx.audit.entries[0].Status != domain.AuditStatusSuccess {
			t.Fatalf("expected one SUCCESS audit entry, got %+v", fx.audit.entries)
		}
	})

	t.Run("every attempt hits the limiter, blocked ones included", func(t *testing.T) {
		t.Parallel()
		fx := newBellFixture(now)
		in := RingBellInput{VenueID: "v1", TableIdentifier: "7", SessionID: "s1", ClientIP: "10.0.0.1"}

		if _, err := fx.svc.Ring(context.Background(), in); err != nil {
			t.Fatalf("first ring: %v", err)
		}
		if _, err := fx.svc.Ring(context.Background(), in); err != nil {
			t.Fatalf("second ring: %v", err)
		}

		fx.limiter.allowBell = false
		fx.limiter.retryAfter = 40 * time.Second

		_, err := fx.svc.Ring(context.Background(), in)
		rl, ok := domain.IsRateLimited(err)
		if !ok {
			t.Fatalf("expected rate limited error, got %v", err)
		}
		if rl.RetryAfter != 40*time.Second {
			t.Fatalf("expected retry after 40s, got %s", rl.RetryAfter)
		}
		if fx.limiter.bellHits != 3 {
			t.Fatalf("expected 3 limiter hits, got %d", fx.limiter.bellHits)
		}
		if len(fx.repo.bells) != 2 {
			t.Fatalf("expected blocked attempt not persisted, got %d bells", len(fx.repo.bells))
		}
		last := fx.audit.entries[len(fx.audit.entries)-1]
		if last.Status != domain.AuditStatusBlocked || last.Reason != domain.AuditReasonRateLimit {
			t.Fatalf("expected BLOCKED/rate_limit entry, got %+v", last)
		}
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		fx := newBellFixture(now)

		if _, err := fx.svc.Ring(context.Background(), RingBellInput{TableIdentifier: "7"}); err != domain.ErrVenueRequired {
			t.Fatalf("expected ErrVenueRequired, got %v", err)
		}
		if _, err := fx.svc.Ring(context.Background(), RingBellInput{VenueID: "v1"}); err != domain.ErrTableRequired {
			t.Fatalf("expected ErrTableRequired, got %v", err)
		}
		if fx.limiter.bellHits != 0 {
			t.Fatalf("expected invalid requests to skip the limiter, got %d hits", fx.limiter.bellHits)
		}
	})
}
