package engine

import "time"

// TimeProvider supplies wall time to a Clock
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads the system clock, time.Now carries a monotonic reading
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a new monotonic time provider
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// Clock converts provider time into frame timestamps
// Timestamps are float milliseconds since the clock was created, like a display refresh callback receives
type Clock struct {
	provider TimeProvider
	origin   time.Time
}

// NewClock starts a clock at the provider's current time
func NewClock(provider TimeProvider) *Clock {
	if provider == nil {
		provider = NewMonotonicTimeProvider()
	}
	return &Clock{provider: provider, origin: provider.Now()}
}

// Millis returns elapsed milliseconds with sub-millisecond precision
func (c *Clock) Millis() float64 {
	return float64(c.provider.Now().Sub(c.origin)) / float64(time.Millisecond)
}
