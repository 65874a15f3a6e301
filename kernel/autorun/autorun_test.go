package autorun

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-kernel/kernel"
	"github.com/valerio/go-kernel/kernel/clock"
)

func newTracker(t *testing.T) (*Tracker, *clock.Manual) {
	t.Helper()

	cfg := kernel.DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	c := clock.NewManual(time.Millisecond)
	k, err := kernel.New(c, cfg)
	require.NoError(t, err)
	k.Start()
	return NewTracker(k), c
}

func TestAutorun_FirstRunIsSynchronous(t *testing.T) {
	tr, _ := newTracker(t)

	var firstRuns []bool
	var current *Computation
	c := tr.Autorun(func(c *Computation) {
		firstRuns = append(firstRuns, c.FirstRun())
		current = tr.Current()
	})

	assert.Equal(t, []bool{true}, firstRuns)
	assert.Same(t, c, current)
	assert.False(t, tr.Active(), "current computation is restored after the run")
	assert.False(t, c.FirstRun())
}

func TestAutorun_RerunsAreDeferred(t *testing.T) {
	tr, clk := newTracker(t)

	var firstRuns []bool
	c := tr.Autorun(func(c *Computation) {
		firstRuns = append(firstRuns, c.FirstRun())
	})

	c.Invalidate()
	c.Invalidate()
	c.Invalidate()
	assert.Equal(t, 1, c.Runs(), "reruns wait for a frame")

	clk.Step()
	assert.Equal(t, 2, c.Runs(), "invalidations before the rerun collapse")
	assert.Equal(t, []bool{true, false}, firstRuns)

	c.Invalidate()
	clk.Step()
	assert.Equal(t, 3, c.Runs())
}

func TestAutorun_CurrentDuringDeferredRerun(t *testing.T) {
	tr, clk := newTracker(t)

	var seen []*Computation
	c := tr.Autorun(func(*Computation) {
		seen = append(seen, tr.Current())
	})
	c.Invalidate()
	clk.Step()

	require.Len(t, seen, 2)
	assert.Same(t, c, seen[1])
	assert.Nil(t, tr.Current())
}

func TestAutorun_NestedRestoresOuter(t *testing.T) {
	tr, _ := newTracker(t)

	var inner *Computation
	var afterInner *Computation
	outer := tr.Autorun(func(*Computation) {
		inner = tr.Autorun(func(*Computation) {})
		afterInner = tr.Current()
	})

	assert.NotSame(t, outer, inner)
	assert.Same(t, outer, afterInner)
	assert.Nil(t, tr.Current())
}

func TestAutorun_PanicRestoresCurrent(t *testing.T) {
	tr, clk := newTracker(t)

	c := tr.Autorun(func(c *Computation) {
		if !c.FirstRun() {
			panic("rerun failed")
		}
	})
	c.Invalidate()

	assert.NotPanics(t, func() { clk.Step() })
	assert.Nil(t, tr.Current())
}

func TestAutorun_Debounced(t *testing.T) {
	tr, clk := newTracker(t)

	c := tr.Autorun(func(*Computation) {}, WithDebounce(32*time.Millisecond))
	require.Equal(t, 1, c.Runs())

	c.Invalidate()
	c.Invalidate()
	clk.StepTo(16 * time.Millisecond)
	c.Invalidate()

	clk.StepTo(96 * time.Millisecond)
	assert.Equal(t, 2, c.Runs())
}

func TestAutorun_Throttled(t *testing.T) {
	tr, clk := newTracker(t)

	c := tr.Autorun(func(*Computation) {}, WithThrottle(8*time.Millisecond))
	require.Equal(t, 1, c.Runs())

	c.Invalidate()
	clk.StepTo(16 * time.Millisecond)
	c.Invalidate()

	clk.StepTo(32 * time.Millisecond)
	assert.Equal(t, 3, c.Runs())
}

func TestAutorun_StopCancelsPendingRerun(t *testing.T) {
	tr, clk := newTracker(t)

	stops := 0
	c := tr.Autorun(func(*Computation) {})
	c.OnStop(func() { stops++ })

	c.Invalidate()
	c.Stop()
	c.Stop()
	clk.Step()

	assert.Equal(t, 1, c.Runs())
	assert.True(t, c.Stopped())
	assert.Equal(t, 1, stops)

	c.Invalidate()
	clk.Step()
	assert.Equal(t, 1, c.Runs())

	late := false
	c.OnStop(func() { late = true })
	assert.True(t, late, "OnStop after Stop runs immediately")
}
