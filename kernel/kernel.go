// Package kernel implements a cooperative frame scheduler.
//
// A Kernel multiplexes three tiers of work onto one tick per display
// refresh: timed callbacks that fire once their timestamp is reached,
// render callbacks that run exactly once on the next tick, and deferred
// callbacks that run as the per-tick budget allows. Timers, intervals and
// the rate limiters in kernel/ratelimit are built on the timed tier.
//
// A Kernel is not safe for concurrent use. Every method must be called from
// the goroutine driving its clock, which is also where all callbacks run.
package kernel

import (
	"log/slog"
	"time"

	"github.com/valerio/go-kernel/kernel/clock"
	"github.com/valerio/go-kernel/kernel/queue"
	"github.com/valerio/go-kernel/kernel/timer"
)

// Frame describes the tick a callback runs in.
type Frame struct {
	// Now is the timestamp sampled at the start of the tick.
	Now time.Duration
	// Last is the timestamp of the previous executed tick. On the first
	// executed tick it equals Now.
	Last time.Duration
	// Number is the frame counter, starting at 1.
	Number uint64
}

// Delta returns the time since the previous executed tick.
func (f Frame) Delta() time.Duration {
	return f.Now - f.Last
}

// FrameFunc is a render or deferred callback.
type FrameFunc func(f Frame)

// TimedFunc is a timed callback. runAt is the timestamp it was scheduled
// for; f.Now may be later.
type TimedFunc func(runAt time.Duration, f Frame)

type timedEntry struct {
	fn    TimedFunc
	runAt time.Duration
}

// Kernel is the frame loop and its queues.
type Kernel struct {
	clock  clock.Clock
	timers *timer.Registry

	timed    queue.Buffer[timedEntry]
	render   *queue.FIFO[FrameFunc]
	deferred *queue.FIFO[FrameFunc]

	frameRateLimit    time.Duration
	deferredTimeLimit time.Duration
	maxDeferredLength int

	log     *slog.Logger
	onPanic func(err *PanicError)

	frame     uint64
	last      time.Duration
	started   bool
	running   bool
	scheduled bool // a tick request is pending with the clock

	dropped uint64
	forced  uint64
	panics  uint64
}

// New creates a kernel driven by c. It does not tick until Start is called
// or Tick is invoked directly.
func New(c clock.Clock, cfg Config) (*Kernel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Kernel{
		clock:             c,
		timers:            timer.NewRegistry(),
		render:            queue.NewFIFO[FrameFunc](64),
		deferred:          queue.NewFIFO[FrameFunc](64),
		frameRateLimit:    cfg.FrameRateLimit,
		deferredTimeLimit: cfg.DeferredTimeLimit,
		maxDeferredLength: cfg.MaxDeferredLength,
		log:               logger,
		onPanic:           cfg.OnPanic,
	}, nil
}

// Start requests the first tick. The loop keeps itself scheduled until Stop.
func (k *Kernel) Start() {
	if k.running {
		return
	}
	k.running = true
	// a tick requested before a Stop in this frame is still pending and
	// keeps the loop alive
	if !k.scheduled {
		k.requestTick()
	}
}

func (k *Kernel) requestTick() {
	k.scheduled = true
	k.clock.RequestNextTick(k.Tick)
}

// Stop keeps the loop from requesting further ticks. Queued work stays
// queued and runs if the kernel is started again.
func (k *Kernel) Stop() {
	k.running = false
}

// Running reports whether the loop reschedules itself.
func (k *Kernel) Running() bool {
	return k.running
}

// Now returns the clock's current timestamp.
func (k *Kernel) Now() time.Duration {
	return k.clock.Now()
}

// CurrentFrame returns the number of executed ticks.
func (k *Kernel) CurrentFrame() uint64 {
	return k.frame
}

// OnRender queues fn to run exactly once on the next executed tick.
func (k *Kernel) OnRender(fn FrameFunc) {
	k.render.Push(fn)
}

// Defer queues fn to run once, when a tick has budget left for it.
func (k *Kernel) Defer(fn FrameFunc) {
	k.deferred.Push(fn)
}

// Timed queues fn to run on the first executed tick whose timestamp is at
// or after runAt. Timed entries cannot be cancelled; use SetTimeout for that.
func (k *Kernel) Timed(fn TimedFunc, runAt time.Duration) {
	k.timed.Push(timedEntry{fn: fn, runAt: runAt})
}

// Each defers one call of fn per item, in order.
func Each[T any](k *Kernel, items []T, fn func(i int, item T)) {
	for i, item := range items {
		k.Defer(func(Frame) {
			fn(i, item)
		})
	}
}

// FrameRateLimit returns the configured minimum tick spacing.
func (k *Kernel) FrameRateLimit() time.Duration {
	return k.frameRateLimit
}

// SetFrameRateLimit changes the minimum tick spacing from the next tick on.
func (k *Kernel) SetFrameRateLimit(d time.Duration) error {
	if err := validateDuration("frame rate limit", d); err != nil {
		return err
	}
	k.frameRateLimit = d
	return nil
}

// DeferredTimeLimit returns the per-tick deferred budget.
func (k *Kernel) DeferredTimeLimit() time.Duration {
	return k.deferredTimeLimit
}

// SetDeferredTimeLimit changes the per-tick deferred budget.
func (k *Kernel) SetDeferredTimeLimit(d time.Duration) error {
	if err := validateDuration("deferred time limit", d); err != nil {
		return err
	}
	k.deferredTimeLimit = d
	return nil
}

// MaxDeferredLength returns the deferred backlog cap.
func (k *Kernel) MaxDeferredLength() int {
	return k.maxDeferredLength
}

// SetMaxDeferredLength changes the deferred backlog cap.
func (k *Kernel) SetMaxDeferredLength(n int) error {
	if err := validateLength(n); err != nil {
		return err
	}
	k.maxDeferredLength = n
	return nil
}
