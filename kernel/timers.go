package kernel

import (
	"time"

	"github.com/valerio/go-kernel/kernel/timer"
)

// SetTimeout runs fn once, on the first tick at least delay from now,
// unless the returned handle is cleared first. Negative delays are treated
// as zero.
func (k *Kernel) SetTimeout(fn func(), delay time.Duration) timer.Handle {
	if delay < 0 {
		delay = 0
	}

	h := k.timers.Create()
	k.Timed(func(time.Duration, Frame) {
		if !k.timers.IsLive(h) {
			return
		}
		k.timers.Cancel(h)
		fn()
	}, k.clock.Now()+delay)

	k.log.Debug("Kernel timeout set", "handle", uint64(h), "delay", delay)
	return h
}

// SetInterval runs fn every interval until the returned handle is cleared.
// Firings follow a fixed schedule from the time SetInterval was called, not
// from the end of the previous firing. Negative intervals are treated as
// zero, which fires once per tick.
func (k *Kernel) SetInterval(fn func(), interval time.Duration) timer.Handle {
	if interval < 0 {
		interval = 0
	}

	h := k.timers.Create()
	next := k.clock.Now() + interval

	var run TimedFunc
	run = func(time.Duration, Frame) {
		if !k.timers.IsLive(h) {
			return
		}
		// re-arm before fn so a panicking or slow fn keeps the cadence
		next += interval
		k.Timed(run, next)
		fn()
	}
	k.Timed(run, next)

	k.log.Debug("Kernel interval set", "handle", uint64(h), "interval", interval)
	return h
}

// ClearTimeout cancels a timer created by SetTimeout or SetInterval.
// Clearing an unknown or already cleared handle does nothing.
func (k *Kernel) ClearTimeout(h timer.Handle) {
	if k.timers.IsLive(h) {
		k.log.Debug("Kernel timer cleared", "handle", uint64(h))
	}
	k.timers.Cancel(h)
}

// ClearInterval is ClearTimeout.
func (k *Kernel) ClearInterval(h timer.Handle) {
	k.ClearTimeout(h)
}
