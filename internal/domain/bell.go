package domain

import "time"

type BellStatus string

const (
	BellStatusPending      BellStatus = "pending"
	BellStatusAcknowledged BellStatus = "acknowledged"
	BellStatusResolved     BellStatus = "resolved"
)

func ValidBellStatus(s BellStatus) bool {
	switch s {
	case BellStatusPending, BellStatusAcknowledged, BellStatusResolved:
		return true
	}
	return false
}

// CanTransition reports whether a bell request may move from s to next.
// The sequence is pending → acknowledged → resolved, one step at a time;
// re-applying the current status is a no-op and resolved is terminal.
func (s BellStatus) CanTransition(next BellStatus) bool {
	if !ValidBellStatus(s) || !ValidBellStatus(next) {
		return false
	}
	if s == next {
		return true
	}
	switch s {
	case BellStatusPending:
		return next == BellStatusAcknowledged
	case BellStatusAcknowledged:
		return next == BellStatusResolved
	}
	return false
}

// BellRequest is a waiter call raised from a table.
type BellRequest struct {
	ID              string
	VenueID         string
	TableIdentifier string
	Status          BellStatus
	SessionID       string
	CreatedAt       time.Time
}
