// Package retry provides exponential backoff with jitter for transient
// errors, and the classification of what counts as transient.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Config controls the backoff schedule.
type Config struct {
	// MaxAttempts bounds the total number of calls, the initial one
	// included. Values below 1 behave as 1.
	MaxAttempts int

	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the exponentially growing wait.
	MaxDelay time.Duration

	// Multiplier grows the wait between consecutive retries.
	Multiplier float64

	// Jitter scales each wait by a random factor in
	// [1-Jitter, 1+Jitter] so concurrent clients spread out.
	Jitter float64
}

// DefaultConfig returns the schedule used for provider calls: 3
// attempts, 500ms initial delay doubling up to 8s, 10% jitter.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     8 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Disabled returns a single-attempt schedule.
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Delay returns the wait after the given zero-indexed attempt:
// InitialDelay * Multiplier^attempt, capped at MaxDelay, with jitter
// applied.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	d := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	d = math.Min(d, float64(c.MaxDelay))
	if c.Jitter > 0 {
		d *= 1 + (rand.Float64()*2-1)*c.Jitter
	}
	return time.Duration(d)
}
