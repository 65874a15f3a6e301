package timing

import (
	"fmt"
	"time"
)

// Limiter paces a display refresh loop.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next refresh.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode,
// or when the display itself blocks on vsync).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// DefaultRefreshRate is the refresh rate assumed when none is configured.
const DefaultRefreshRate = 60.0

// FrameDuration returns the duration of a single refresh at hz.
func FrameDuration(hz float64) time.Duration {
	if hz <= 0 {
		hz = DefaultRefreshRate
	}
	return time.Duration(float64(time.Second) / hz)
}

// Kind names a limiter implementation.
type Kind string

const (
	KindTicker   Kind = "ticker"
	KindAdaptive Kind = "adaptive"
	KindNone     Kind = "none"
)

// New builds the limiter named by kind for the given refresh rate.
func New(kind Kind, hz float64) (Limiter, error) {
	switch kind {
	case KindTicker, "":
		return NewTickerLimiter(hz), nil
	case KindAdaptive:
		return NewAdaptiveLimiter(hz), nil
	case KindNone:
		return NewNoOpLimiter(), nil
	default:
		return nil, fmt.Errorf("unknown limiter %q", kind)
	}
}
