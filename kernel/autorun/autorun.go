// Package autorun layers re-runnable computations over a kernel's deferred
// tier. The first run of a computation happens synchronously; every rerun
// requested through Invalidate is deferred to a frame with spare budget,
// optionally debounced or throttled.
//
// Dependency tracking is left to the caller: whatever observes a change
// calls Invalidate on the computations that read it.
package autorun

import (
	"time"

	"github.com/valerio/go-kernel/kernel"
	"github.com/valerio/go-kernel/kernel/ratelimit"
)

// Scheduler is the part of a kernel computations need.
type Scheduler interface {
	ratelimit.Scheduler
	Defer(fn kernel.FrameFunc)
}

// Tracker owns a set of computations and knows which one is running.
type Tracker struct {
	s       Scheduler
	current *Computation
}

func NewTracker(s Scheduler) *Tracker {
	return &Tracker{s: s}
}

// Current returns the computation being run, or nil outside of one.
func (t *Tracker) Current() *Computation {
	return t.current
}

// Active reports whether a computation is being run.
func (t *Tracker) Active() bool {
	return t.current != nil
}

// Computation is a function rerun on demand.
type Computation struct {
	tracker  *Tracker
	fn       func(c *Computation)
	schedule func()
	firstRun bool
	queued   bool
	stopped  bool
	runs     int
	onStop   []func()
}

type options struct {
	debounce time.Duration
	throttle time.Duration
}

// Option configures Autorun.
type Option func(*options)

// WithDebounce coalesces invalidations until none arrived for d.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithThrottle reruns at most once every d.
func WithThrottle(d time.Duration) Option {
	return func(o *options) { o.throttle = d }
}

// Autorun runs fn now and returns the computation that reruns it.
func (t *Tracker) Autorun(fn func(c *Computation), opts ...Option) *Computation {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Computation{
		tracker:  t,
		fn:       fn,
		firstRun: true,
	}

	c.schedule = c.enqueue
	switch {
	case o.debounce > 0:
		c.schedule = ratelimit.DebounceFunc(t.s, c.enqueue, o.debounce, false)
	case o.throttle > 0:
		c.schedule = ratelimit.ThrottleFunc(t.s, c.enqueue, o.throttle)
	}

	c.run()
	c.firstRun = false
	return c
}

// FirstRun reports whether the computation is in its initial, synchronous run.
func (c *Computation) FirstRun() bool {
	return c.firstRun
}

// Runs returns how many times fn has run.
func (c *Computation) Runs() int {
	return c.runs
}

// Stopped reports whether Stop was called.
func (c *Computation) Stopped() bool {
	return c.stopped
}

// Invalidate requests a rerun. Several invalidations before the rerun
// happens collapse into one.
func (c *Computation) Invalidate() {
	if c.stopped {
		return
	}
	c.schedule()
}

// OnStop registers fn to run when the computation stops.
func (c *Computation) OnStop(fn func()) {
	if c.stopped {
		fn()
		return
	}
	c.onStop = append(c.onStop, fn)
}

// Stop prevents further reruns, including one already deferred.
func (c *Computation) Stop() {
	if c.stopped {
		return
	}
	c.stopped = true
	for _, fn := range c.onStop {
		fn()
	}
	c.onStop = nil
}

func (c *Computation) enqueue() {
	if c.stopped || c.queued {
		return
	}
	c.queued = true
	c.tracker.s.Defer(func(kernel.Frame) {
		c.queued = false
		if c.stopped {
			return
		}
		c.run()
	})
}

// run executes fn with c as the current computation, restoring the previous
// one afterwards even if fn panics.
func (c *Computation) run() {
	t := c.tracker
	prev := t.current
	t.current = c
	defer func() { t.current = prev }()

	c.runs++
	c.fn(c)
}
