package runtime

import (
	"math/rand/v2"
	"time"

	"google.golang.org/grpc/backoff"
)

// NoReconnect never retries. A failed connection stays failed until the user joins again.
type NoReconnect struct{}

func (NoReconnect) NextDelay(int) (time.Duration, bool) {
	return 0, false
}

// ExponentialBackoff retries with a jittered exponential delay capped at MaxDelay.
// MaxAttempts <= 0 retries forever.
type ExponentialBackoff struct {
	Config      backoff.Config
	MaxAttempts int
	jitter      func() float64
}

func NewExponentialBackoff(config backoff.Config, maxAttempts int) *ExponentialBackoff {
	return &ExponentialBackoff{Config: config, MaxAttempts: maxAttempts, jitter: rand.Float64}
}

// DefaultExponentialBackoff uses the same parameters as grpc's connection backoff.
func DefaultExponentialBackoff() *ExponentialBackoff {
	return NewExponentialBackoff(backoff.DefaultConfig, 0)
}

func (b *ExponentialBackoff) NextDelay(attempt int) (time.Duration, bool) {
	if attempt < 1 || (b.MaxAttempts > 0 && attempt > b.MaxAttempts) {
		return 0, false
	}
	delay := float64(b.Config.BaseDelay)
	limit := float64(b.Config.MaxDelay)
	for i := 1; i < attempt && delay < limit; i++ {
		delay *= b.Config.Multiplier
	}
	if delay > limit {
		delay = limit
	}
	if b.jitter != nil && b.Config.Jitter > 0 {
		delay *= 1 + b.Config.Jitter*(b.jitter()*2-1)
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay), true
}
