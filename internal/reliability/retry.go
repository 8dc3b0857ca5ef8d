package reliability

import (
	"math"
	"math/rand"
	"time"
)

// BackoffPolicy computes delays between retry attempts.
type BackoffPolicy interface {
	// NextDelay returns the delay before the given zero-based attempt.
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff grows the delay by Multiplier per attempt, capped
// at MaxInterval, with optional jitter to avoid thundering herds.
type ExponentialBackoff struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Jitter          bool
}

// NewExponentialBackoff creates a jittered exponential backoff policy.
func NewExponentialBackoff(initial, max time.Duration, multiplier float64) *ExponentialBackoff {
	return &ExponentialBackoff{
		InitialInterval: initial,
		MaxInterval:     max,
		Multiplier:      multiplier,
		Jitter:          true,
	}
}

// NextDelay implements BackoffPolicy.
func (e *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	delay := float64(e.InitialInterval) * math.Pow(e.Multiplier, float64(attempt))
	if delay > float64(e.MaxInterval) {
		delay = float64(e.MaxInterval)
	}
	if e.Jitter {
		// ±15%
		delay += (rand.Float64() - 0.5) * 0.3 * delay
	}
	return time.Duration(delay)
}

// ConstantBackoff waits a fixed interval between attempts.
type ConstantBackoff struct {
	Interval time.Duration
}

// NewConstantBackoff creates a fixed-interval backoff policy.
func NewConstantBackoff(interval time.Duration) *ConstantBackoff {
	return &ConstantBackoff{Interval: interval}
}

// NextDelay implements BackoffPolicy.
func (c *ConstantBackoff) NextDelay(int) time.Duration {
	return c.Interval
}
