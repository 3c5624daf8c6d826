package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type AuditEventType string

const (
	AuditEventCreateOrder AuditEventType = "create_order"
	AuditEventRingBell    AuditEventType = "ring_bell"
)

type AuditStatus string

const (
	AuditStatusSuccess  AuditStatus = "SUCCESS"
	AuditStatusBlocked  AuditStatus = "BLOCKED"
	AuditStatusRejected AuditStatus = "REJECTED"
)

type AuditReason string

const (
	AuditReasonNone            AuditReason = ""
	AuditReasonRateLimit       AuditReason = "rate_limit"
	AuditReasonItemNotFound    AuditReason = "item_not_found"
	AuditReasonItemUnavailable AuditReason = "item_unavailable"
)

// AuditEntry is an immutable record of an accepted, blocked or rejected
// submission attempt. Entries are append-only and never mutated by the app.
type AuditEntry struct {
	ID          string
	EventType   AuditEventType
	SessionHash string
	VenueID     string
	Status      AuditStatus
	Reason      AuditReason
	IPAddress   string
	CreatedAt   time.Time
}

// SessionHash derives the audit/rate-limit identity from the session token
// and the client address. Hashing keeps raw session tokens out of the audit
// table; mixing in the IP stops a rotated anonymous session from resetting
// rate-limit budgets on its own.
func SessionHash(sessionID, ip string) string {
	sum := sha256.Sum256([]byte(sessionID + "|" + ip))
	return hex.EncodeToString(sum[:8])
}
