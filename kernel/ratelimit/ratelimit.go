// Package ratelimit wraps callbacks with debounce and throttle behaviour
// driven by a kernel's timers.
//
// The wrappers keep their state in closures and, like the kernel, must only
// be called from the goroutine driving the kernel.
package ratelimit

import (
	"time"

	"github.com/valerio/go-kernel/kernel/timer"
)

// Scheduler is the part of a kernel the rate limiters need.
type Scheduler interface {
	Now() time.Duration
	SetTimeout(fn func(), delay time.Duration) timer.Handle
	ClearTimeout(h timer.Handle)
}
