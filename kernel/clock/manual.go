package clock

import (
	"context"
	"time"
)

// Manual is a Clock whose time only moves through Advance, Set or Step.
// It is meant for tests and deterministic headless runs.
type Manual struct {
	now     time.Duration
	step    time.Duration
	pending []func()
}

// NewManual creates a clock at time zero that moves by step on each Step.
func NewManual(step time.Duration) *Manual {
	return &Manual{step: step}
}

func (m *Manual) Now() time.Duration {
	return m.now
}

func (m *Manual) RequestNextTick(fn func()) {
	m.pending = append(m.pending, fn)
}

// Advance moves time forward by d. Negative values are ignored.
func (m *Manual) Advance(d time.Duration) {
	if d > 0 {
		m.now += d
	}
}

// Set moves time to t if t is not in the past.
func (m *Manual) Set(t time.Duration) {
	if t > m.now {
		m.now = t
	}
}

// Pending returns the number of tick requests waiting for the next Fire.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Fire runs the tick requests made so far without moving time. Requests made
// while firing wait for the next call.
func (m *Manual) Fire() int {
	batch := m.pending
	m.pending = nil
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Step advances time by the configured step and fires pending requests.
func (m *Manual) Step() int {
	m.Advance(m.step)
	return m.Fire()
}

// StepTo steps until Now reaches t.
func (m *Manual) StepTo(t time.Duration) {
	for m.now < t {
		if m.step <= 0 {
			m.Set(t)
			m.Fire()
			return
		}
		m.Step()
	}
}

// Run steps until ctx is done or nothing requested another tick.
func (m *Manual) Run(ctx context.Context) error {
	for len(m.pending) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		m.Step()
	}
	return nil
}
