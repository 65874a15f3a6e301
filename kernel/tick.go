package kernel

// Tick runs one frame. It is normally called by the clock after Start; tests
// may call it directly.
func (k *Kernel) Tick() {
	now := k.clock.Now()
	k.scheduled = false

	// reschedule before running any work so a slow callback can't lose the
	// next refresh
	if k.running {
		k.requestTick()
	}

	if !k.started {
		k.started = true
		k.last = now
	}

	if k.frameRateLimit > 0 && now-k.last < k.frameRateLimit {
		k.dropped++
		k.log.Debug("Kernel tick dropped", "since_last", now-k.last, "limit", k.frameRateLimit)
		return
	}

	k.frame++
	f := Frame{Now: now, Last: k.last, Number: k.frame}

	k.runTimed(f)
	k.runRender(f)
	k.runDeferred(f)

	k.last = now
}

func (k *Kernel) runTimed(f Frame) {
	for _, e := range k.timed.Swap() {
		if e.runAt > f.Now {
			// not ready yet, maybe next tick
			k.timed.Push(e)
			continue
		}
		k.guard(TierTimed, func() { e.fn(e.runAt, f) })
	}
}

func (k *Kernel) runRender(f Frame) {
	for {
		fn, ok := k.render.Pop()
		if !ok {
			return
		}
		k.guard(TierRender, func() { fn(f) })
	}
}

func (k *Kernel) runDeferred(f Frame) {
	if excess := k.deferred.Len() - k.maxDeferredLength; excess > 0 {
		k.log.Debug("Kernel forcing deferred work", "count", excess, "frame", f.Number)
	}
	for k.deferred.Len() > k.maxDeferredLength {
		fn, _ := k.deferred.Pop()
		k.forced++
		k.guard(TierDeferred, func() { fn(f) })
	}

	logged := false
	for k.deferred.Len() > 0 && k.clock.Now()-f.Now < k.deferredTimeLimit {
		if !logged {
			k.log.Debug("Kernel deferred queue", "size", k.deferred.Len(), "frame", f.Number)
			logged = true
		}
		fn, _ := k.deferred.Pop()
		k.guard(TierDeferred, func() { fn(f) })
	}
}
