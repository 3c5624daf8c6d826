package app

import (
	"context"
	"testing"
	"time"

	"github.com/ikanisa/dinein-malta-sub006/internal/clock"
	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

func TestAuditLoggerRecord(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 21, 0, 0, 0, time.UTC)
	repo := &fakeAuditRepo{}
	logger := NewAuditLogger(repo, clock.NewFixed(now), discardLogger())

	logger.Record(context.Background(), domain.AuditEventCreateOrder, "hash-a", "v1", domain.AuditStatusSuccess, domain.AuditReasonNone, "10.0.0.1")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if !entry.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %s, got %s", now, entry.CreatedAt)
	}
	if entry.SessionHash != "hash-a" || entry.IPAddress != "10.0.0.1" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestAuditLoggerRecent(t *testing.T) {
	t.Parallel()

	repo := &fakeAuditRepo{}
	logger := NewAuditLogger(repo, clock.NewSystem(), discardLogger())

	if _, err := logger.Recent(context.Background(), "", 10); err != domain.ErrVenueRequired {
		t.Fatalf("expected ErrVenueRequired, got %v", err)
	}

	for i := 0; i < 60; i++ {
		repo.entries = append(repo.entries, domain.AuditEntry{VenueID: "v1"})
	}

	entries, err := logger.Recent(context.Background(), "v1", 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 50 {
		t.Fatalf("expected default limit 50 applied, got %d", len(entries))
	}

	entries, err = logger.Recent(context.Background(), "v1", 500)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 50 {
		t.Fatalf("expected out-of-range limit reset to 50, got %d", len(entries))
	}
}
