// Package workload generates synthetic load for a kernel: a producer that
// enqueues deferred jobs at a steady rate, bursts on demand, and a per-frame
// render callback that tracks frame spacing.
package workload

import (
	"log/slog"
	"time"

	"github.com/valerio/go-kernel/kernel"
	"github.com/valerio/go-kernel/kernel/timer"
)

// ProducerInterval is how often the producer wakes up to enqueue the jobs
// that came due since its previous run.
const ProducerInterval = 50 * time.Millisecond

// Config shapes the load.
type Config struct {
	JobsPerSecond int
	JobCost       time.Duration
	BurstSize     int
	// Spin consumes a job's cost. Defaults to BusyWait.
	Spin func(time.Duration)
}

// Status is a snapshot of the generator.
type Status struct {
	Produced  uint64
	Completed uint64
	Frames    uint64
	MaxDelta  time.Duration
	Paused    bool
}

// Generator produces work on a kernel. It must be used from the kernel's
// goroutine.
type Generator struct {
	k   *kernel.Kernel
	cfg Config

	producer timer.Handle
	frames   timer.Handle
	started  bool
	paused   bool

	lastProduce time.Duration
	carry       int64

	produced  uint64
	completed uint64
	rendered  uint64
	maxDelta  time.Duration
}

// New creates a stopped generator.
func New(k *kernel.Kernel, cfg Config) *Generator {
	if cfg.Spin == nil {
		cfg.Spin = BusyWait
	}
	return &Generator{k: k, cfg: cfg}
}

// BusyWait spins the calling goroutine for d.
func BusyWait(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}

// Start arms the producer and the per-frame callback.
func (g *Generator) Start() {
	if g.started {
		return
	}
	g.started = true
	g.lastProduce = g.k.Now()

	g.producer = g.k.SetInterval(g.produce, ProducerInterval)
	g.frames = g.k.SetInterval(func() { g.k.OnRender(g.onFrame) }, 0)

	slog.Info("Workload started",
		"jobs_per_second", g.cfg.JobsPerSecond,
		"job_cost", g.cfg.JobCost,
		"burst_size", g.cfg.BurstSize)
}

// Stop cancels the producer and the per-frame callback. Jobs already queued
// still run.
func (g *Generator) Stop() {
	if !g.started {
		return
	}
	g.started = false
	g.k.ClearInterval(g.producer)
	g.k.ClearInterval(g.frames)
}

// TogglePause stops or resumes steady production. Bursts are not affected.
func (g *Generator) TogglePause() {
	g.paused = !g.paused
	// production resumes from now, not from when it was paused
	g.lastProduce = g.k.Now()
	g.carry = 0
	slog.Info("Workload pause toggled", "paused", g.paused)
}

// Burst enqueues BurstSize jobs at once.
func (g *Generator) Burst() {
	if g.cfg.BurstSize <= 0 {
		return
	}
	jobs := make([]struct{}, g.cfg.BurstSize)
	kernel.Each(g.k, jobs, func(int, struct{}) { g.runJob() })
	g.produced += uint64(len(jobs))
	slog.Info("Workload burst", "jobs", len(jobs))
}

// Status returns the current counters.
func (g *Generator) Status() Status {
	return Status{
		Produced:  g.produced,
		Completed: g.completed,
		Frames:    g.rendered,
		MaxDelta:  g.maxDelta,
		Paused:    g.paused,
	}
}

func (g *Generator) produce() {
	now := g.k.Now()
	elapsed := now - g.lastProduce
	g.lastProduce = now
	if g.paused || g.cfg.JobsPerSecond <= 0 {
		return
	}

	// job-nanoseconds owed, so fractional jobs carry over exactly
	due := int64(g.cfg.JobsPerSecond)*int64(elapsed) + g.carry
	n := int(due / int64(time.Second))
	g.carry = due % int64(time.Second)

	for i := 0; i < n; i++ {
		g.k.Defer(func(kernel.Frame) { g.runJob() })
	}
	g.produced += uint64(n)
}

func (g *Generator) runJob() {
	if g.cfg.JobCost > 0 {
		g.cfg.Spin(g.cfg.JobCost)
	}
	g.completed++
}

func (g *Generator) onFrame(f kernel.Frame) {
	g.rendered++
	if d := f.Delta(); d > g.maxDelta {
		g.maxDelta = d
	}
}
