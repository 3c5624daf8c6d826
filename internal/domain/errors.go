package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrVenueRequired           = errors.New("venue_id is required")
	ErrVenueNotFound           = errors.New("venue not found")
	ErrEmptyOrder              = errors.New("order has no items")
	ErrTooManyLines            = errors.New("too many order lines")
	ErrInvalidPaymentMethod    = errors.New("invalid payment method")
	ErrItemNotFound            = errors.New("menu item not found")
	ErrItemUnavailable         = errors.New("menu item unavailable")
	ErrTableRequired           = errors.New("table_number is required")
	ErrIdempotencyConflict     = errors.New("idempotency key already used")
	ErrOrderNotFound           = errors.New("order not found")
	ErrBellNotFound            = errors.New("service request not found")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidID               = errors.New("invalid id")
)

// RateLimitedError tells the caller approximately when to retry.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	secs := int(e.RetryAfter.Seconds())
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("too many requests, retry in %ds", secs)
}

// IsRateLimited unwraps err into a RateLimitedError when it is one.
func IsRateLimited(err error) (*RateLimitedError, bool) {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return rl, true
	}
	return nil, false
}
