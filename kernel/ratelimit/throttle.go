package ratelimit

import (
	"time"

	"github.com/valerio/go-kernel/kernel/timer"
)

type throttleOptions struct {
	leading  bool
	trailing bool
}

// ThrottleOption configures Throttle.
type ThrottleOption func(*throttleOptions)

// WithLeading enables or disables the call at the start of a window.
// Enabled by default.
func WithLeading(enabled bool) ThrottleOption {
	return func(o *throttleOptions) { o.leading = enabled }
}

// WithTrailing enables or disables the call at the end of a window made of
// suppressed calls. Enabled by default.
func WithTrailing(enabled bool) ThrottleOption {
	return func(o *throttleOptions) { o.trailing = enabled }
}

// Throttle returns a wrapper that calls fn at most once per wait window.
//
// A call with the window expired runs fn immediately and opens a new window.
// Calls inside a window are suppressed; if trailing is enabled the first of
// them schedules a call for the end of the window, which receives the most
// recent argument.
func Throttle[T any](s Scheduler, fn func(T), wait time.Duration, opts ...ThrottleOption) func(T) {
	o := throttleOptions{leading: true, trailing: true}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		previous    time.Duration
		hasPrevious bool
		pending     bool
		handle      timer.Handle
		lastArg     T
	)

	later := func() {
		pending = false
		if !o.leading {
			// without a leading edge the next call opens a fresh window
			hasPrevious = false
		}
		arg := lastArg
		var zero T
		lastArg = zero
		fn(arg)
	}

	return func(arg T) {
		now := s.Now()
		lastArg = arg

		if !hasPrevious && !o.leading {
			previous = now
			hasPrevious = true
		}

		remaining := time.Duration(0)
		if hasPrevious {
			remaining = wait - (now - previous)
		}

		if remaining <= 0 || remaining > wait {
			if pending {
				s.ClearTimeout(handle)
				pending = false
			}
			previous = now
			hasPrevious = true
			var zero T
			lastArg = zero
			fn(arg)
			return
		}

		if !pending && o.trailing {
			pending = true
			handle = s.SetTimeout(later, remaining)
		}
	}
}

// ThrottleFunc is Throttle for callbacks without arguments.
func ThrottleFunc(s Scheduler, fn func(), wait time.Duration, opts ...ThrottleOption) func() {
	t := Throttle(s, func(struct{}) { fn() }, wait, opts...)
	return func() { t(struct{}{}) }
}
