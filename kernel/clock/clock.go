// Package clock provides the two platform primitives the kernel depends on:
// a monotonic timestamp source and a way to request the next display
// refresh.
//
// Production code uses System, which reads Go's monotonic clock and is paced
// by a timing.Limiter. Tests use Manual, whose time only moves when told to.
package clock

import (
	"context"
	"time"
)

// Clock is the platform surface consumed by the kernel.
type Clock interface {
	// Now returns the time elapsed since the clock's epoch. Successive calls
	// never return a smaller value.
	Now() time.Duration

	// RequestNextTick arranges for fn to be called once, on the goroutine
	// driving the clock, at or before the next display refresh.
	RequestNextTick(fn func())
}

// Driver is a Clock that owns the refresh loop.
type Driver interface {
	Clock

	// Run fires requested ticks until ctx is done or, for drivers that can
	// tell, until nothing requests another tick.
	Run(ctx context.Context) error
}
