package ratelimit

import "time"

// Debounce returns a wrapper that postpones fn until wait has elapsed since
// the last call, then calls it once with the most recent argument.
//
// With immediate set, fn runs synchronously on the first call of a burst and
// the trailing call is suppressed.
func Debounce[T any](s Scheduler, fn func(T), wait time.Duration, immediate bool) func(T) {
	var (
		pending  bool
		lastCall time.Duration
		lastArg  T
	)

	var later func()
	later = func() {
		elapsed := s.Now() - lastCall
		if elapsed < wait && elapsed >= 0 {
			// a newer call arrived, wait out the rest of its quiet period
			s.SetTimeout(later, wait-elapsed)
			return
		}

		pending = false
		if !immediate {
			arg := lastArg
			var zero T
			lastArg = zero
			fn(arg)
		}
	}

	return func(arg T) {
		lastArg = arg
		lastCall = s.Now()

		callNow := immediate && !pending
		if !pending {
			pending = true
			s.SetTimeout(later, wait)
		}
		if callNow {
			var zero T
			lastArg = zero
			fn(arg)
		}
	}
}

// DebounceFunc is Debounce for callbacks without arguments.
func DebounceFunc(s Scheduler, fn func(), wait time.Duration, immediate bool) func() {
	d := Debounce(s, func(struct{}) { fn() }, wait, immediate)
	return func() { d(struct{}{}) }
}

