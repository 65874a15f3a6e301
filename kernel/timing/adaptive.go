package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy.
type AdaptiveLimiter struct {
	targetFrameTime time.Duration
	nextFrameTime   time.Time
	frameCounter    int64
	startTime       time.Time
}

func NewAdaptiveLimiter(hz float64) *AdaptiveLimiter {
	now := time.Now()
	return &AdaptiveLimiter{
		targetFrameTime: FrameDuration(hz),
		nextFrameTime:   now,
		startTime:       now,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := time.Now()
	sleepTime := a.nextFrameTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime >= 2*time.Millisecond {
			time.Sleep(sleepTime - time.Millisecond)
		}
		for time.Now().Before(a.nextFrameTime) {
			// busy-wait the last stretch, higher accuracy.
		}
	} else if sleepTime < -5*time.Millisecond {
		// too far behind, drop the backlog instead of bursting
		a.nextFrameTime = now
	}

	a.nextFrameTime = a.nextFrameTime.Add(a.targetFrameTime)
	a.frameCounter++

	if a.frameCounter%60 == 0 {
		elapsed := time.Since(a.startTime)
		drift := time.Now().Sub(a.nextFrameTime)

		if drift.Abs() > 10*time.Millisecond {
			a.nextFrameTime = a.nextFrameTime.Add(drift / 10)
			slog.Debug("Refresh timing drift correction",
				"drift_ms", drift.Milliseconds(),
				"hz", float64(a.frameCounter)*float64(time.Second)/float64(elapsed))
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	now := time.Now()
	a.nextFrameTime = now
	a.startTime = now
	a.frameCounter = 0
}
