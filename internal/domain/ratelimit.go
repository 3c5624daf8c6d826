package domain

import "time"

// RateLimitDecision is the outcome of a rate-limit check. RetryAfter is only
// meaningful when Allowed is false.
type RateLimitDecision struct {
	Allowed    bool
	RetryAfter time.Duration
}
