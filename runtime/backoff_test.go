package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/backoff"
)

func TestNoReconnect(t *testing.T) {
	req := require.New(t)
	delay, ok := NoReconnect{}.NextDelay(1)
	req.False(ok)
	req.Zero(delay)
}

func TestExponentialBackoff_NextDelay(t *testing.T) {
	policy := NewExponentialBackoff(backoff.Config{
		BaseDelay:  100 * time.Millisecond,
		Multiplier: 2,
		MaxDelay:   time.Second,
	}, 6)

	tests := []struct {
		name    string
		attempt int
		want    time.Duration
		wantOk  bool
	}{
		{name: "first retry uses base delay", attempt: 1, want: 100 * time.Millisecond, wantOk: true},
		{name: "second retry doubles", attempt: 2, want: 200 * time.Millisecond, wantOk: true},
		{name: "fourth retry", attempt: 4, want: 800 * time.Millisecond, wantOk: true},
		{name: "capped at max delay", attempt: 5, want: time.Second, wantOk: true},
		{name: "still capped", attempt: 6, want: time.Second, wantOk: true},
		{name: "gives up after max attempts", attempt: 7, wantOk: false},
		{name: "attempt zero is invalid", attempt: 0, wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delay, ok := policy.NextDelay(tt.attempt)
			require.Equal(t, tt.wantOk, ok)
			require.Equal(t, tt.want, delay)
		})
	}
}

func TestExponentialBackoff_JitterStaysInRange(t *testing.T) {
	req := require.New(t)
	policy := DefaultExponentialBackoff()

	for i := 0; i < 50; i++ {
		delay, ok := policy.NextDelay(1)
		req.True(ok)
		req.GreaterOrEqual(delay, 800*time.Millisecond)
		req.LessOrEqual(delay, 1200*time.Millisecond)
	}
}
