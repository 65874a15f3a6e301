package headless

import (
	"log/slog"

	"github.com/valerio/go-kernel/kernel"
	"github.com/valerio/go-kernel/kernel/backend"
)

// progressInterval is how often, in frames, progress is logged.
const progressInterval = 60

// Backend implements the Backend interface for automated runs and batch
// measurements. It shows nothing and asks to quit after maxFrames updates.
type Backend struct {
	config     backend.BackendConfig
	frameCount int
	maxFrames  int
	sampling   SampleConfig
	samples    []kernel.Stats
	last       kernel.Stats
}

// SampleConfig controls which snapshots are kept for later inspection.
type SampleConfig struct {
	// Interval keeps every Nth snapshot. Zero keeps none.
	Interval int
}

func New(maxFrames int, sampling SampleConfig) *Backend {
	return &Backend{
		maxFrames: maxFrames,
		sampling:  sampling,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"sample_interval", h.sampling.Interval)

	return nil
}

// Update records the snapshot and reports a quit event once the frame
// target is reached.
func (h *Backend) Update(stats kernel.Stats) ([]backend.InputEvent, error) {
	h.frameCount++
	h.last = stats

	if h.sampling.Interval > 0 && h.frameCount%h.sampling.Interval == 0 {
		h.samples = append(h.samples, stats)
	}

	if h.frameCount%progressInterval == 0 {
		slog.Info("Frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.maxFrames > 0 && h.frameCount >= h.maxFrames {
		slog.Info("Headless execution completed",
			"frames", h.frameCount,
			"kernel_frame", stats.Frame,
			"dropped_ticks", stats.DroppedTicks,
			"forced_deferred", stats.ForcedDeferred,
			"panics", stats.Panics)

		return []backend.InputEvent{backend.Quit()}, nil
	}

	return nil, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// Frames returns the number of updates seen.
func (h *Backend) Frames() int {
	return h.frameCount
}

// Samples returns the kept snapshots.
func (h *Backend) Samples() []kernel.Stats {
	return h.samples
}

// Last returns the most recent snapshot.
func (h *Backend) Last() kernel.Stats {
	return h.last
}
