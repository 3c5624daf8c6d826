package app

import (
	"context"
	"log"

	"github.com/ikanisa/dinein-malta-sub006/internal/clock"
	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

// AuditRepository appends to and reads from the append-only audit log.
type AuditRepository interface {
	AppendAudit(ctx context.Context, entry domain.AuditEntry) error
	ListAuditByVenue(ctx context.Context, venueID string, limit int) ([]domain.AuditEntry, error)
}

// AuditLogger records submission attempts best-effort: a failed audit write
// is logged but never fails the business operation it describes.
type AuditLogger struct {
	repo   AuditRepository
	clock  clock.Clock
	logger *log.Logger
}

func NewAuditLogger(repo AuditRepository, clk clock.Clock, logger *log.Logger) *AuditLogger {
	if logger == nil {
		logger = log.Default()
	}
	return &AuditLogger{
		repo:   repo,
		clock:  clk,
		logger: logger,
	}
}

func (a *AuditLogger) Record(ctx context.Context, event domain.AuditEventType, sessionHash, venueID string, status domain.AuditStatus, reason domain.AuditReason, ip string) {
	entry := domain.AuditEntry{
		ID:          newID(),
		EventType:   event,
		SessionHash: sessionHash,
		VenueID:     venueID,
		Status:      status,
		Reason:      reason,
		IPAddress:   ip,
		CreatedAt:   a.clock.Now(),
	}
	if err := a.repo.AppendAudit(ctx, entry); err != nil {
		a.logger.Printf("WARN: audit write failed event=%s venue=%s status=%s: %v", event, venueID, status, err)
	}
}

// Recent returns the newest audit entries for a venue, for incident review.
func (a *AuditLogger) Recent(ctx context.Context, venueID string, limit int) ([]domain.AuditEntry, error) {
	if venueID == "" {
		return nil, domain.ErrVenueRequired
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return a.repo.ListAuditByVenue(ctx, venueID, limit)
}
