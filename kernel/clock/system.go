package clock

import (
	"context"
	"sync"
	"time"

	"github.com/valerio/go-kernel/kernel/timing"
)

// System is a real-time Clock paced by a timing.Limiter.
//
// Now reads the monotonic reading carried by the epoch. If the epoch has no
// monotonic reading (for example it was produced with Round(0)) the value
// falls back to wall clock differences, which are strictly less precise and
// may jump; Now clamps them so the result never decreases.
type System struct {
	epoch   time.Time
	limiter timing.Limiter

	mu      sync.Mutex
	last    time.Duration
	pending []func()
	spare   []func()
}

// NewSystem creates a clock whose epoch is now, refreshing at limiter's pace.
func NewSystem(limiter timing.Limiter) *System {
	return NewSystemAt(time.Now(), limiter)
}

// NewSystemAt creates a clock measuring time since epoch.
func NewSystemAt(epoch time.Time, limiter timing.Limiter) *System {
	if limiter == nil {
		limiter = timing.NewNoOpLimiter()
	}
	return &System{
		epoch:   epoch,
		limiter: limiter,
	}
}

func (s *System) Now() time.Duration {
	d := time.Since(s.epoch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if d < s.last {
		d = s.last
	}
	s.last = d
	return d
}

func (s *System) RequestNextTick(fn func()) {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
}

// Run waits for each refresh and fires the callbacks requested before it.
// Callbacks requested while firing run on the following refresh.
func (s *System) Run(ctx context.Context) error {
	s.limiter.Reset()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.limiter.WaitForNextFrame()

		for _, fn := range s.swap() {
			fn()
		}
	}
}

func (s *System) swap() []func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.pending
	for i := range s.spare {
		s.spare[i] = nil
	}
	s.pending = s.spare[:0]
	s.spare = out
	return out
}
