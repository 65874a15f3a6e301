package kernel

import "time"

// Stats is a snapshot of the kernel's counters and queue depths.
type Stats struct {
	Frame    uint64
	Now      time.Duration
	LastTick time.Duration

	TimedPending    int
	RenderPending   int
	DeferredPending int
	LiveTimers      int

	// DroppedTicks counts platform ticks skipped by the frame rate limit.
	DroppedTicks uint64
	// ForcedDeferred counts deferred callbacks run over budget because the
	// backlog exceeded the cap.
	ForcedDeferred uint64
	// Panics counts recovered callback panics.
	Panics uint64

	FrameRateLimit    time.Duration
	DeferredTimeLimit time.Duration
	MaxDeferredLength int
}

// Stats returns the current counters.
func (k *Kernel) Stats() Stats {
	return Stats{
		Frame:             k.frame,
		Now:               k.clock.Now(),
		LastTick:          k.last,
		TimedPending:      k.timed.Len(),
		RenderPending:     k.render.Len(),
		DeferredPending:   k.deferred.Len(),
		LiveTimers:        k.timers.Len(),
		DroppedTicks:      k.dropped,
		ForcedDeferred:    k.forced,
		Panics:            k.panics,
		FrameRateLimit:    k.frameRateLimit,
		DeferredTimeLimit: k.deferredTimeLimit,
		MaxDeferredLength: k.maxDeferredLength,
	}
}
