// Package app wires a kernel to a clock driver, a display backend, input
// handling and a synthetic workload.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/valerio/go-kernel/kernel"
	"github.com/valerio/go-kernel/kernel/backend"
	"github.com/valerio/go-kernel/kernel/clock"
	"github.com/valerio/go-kernel/kernel/config"
	"github.com/valerio/go-kernel/kernel/input"
	"github.com/valerio/go-kernel/kernel/input/action"
	"github.com/valerio/go-kernel/kernel/input/event"
	"github.com/valerio/go-kernel/kernel/timer"
	"github.com/valerio/go-kernel/kernel/timing"
	"github.com/valerio/go-kernel/kernel/workload"
)

// FrameRateLimits are the limits CycleFrameRateLimit steps through, after
// the configured one.
var FrameRateLimits = []time.Duration{
	0,
	time.Second / 30,
	time.Second / 10,
}

// Options configures New.
type Options struct {
	Config  config.Config
	Backend backend.Backend
	Driver  clock.Driver
	// Spin consumes simulated job cost. Defaults to workload.BusyWait.
	Spin func(time.Duration)
	// Throttle is the UI input window. Defaults to input.DefaultThrottle.
	Throttle time.Duration
}

// App owns one run.
type App struct {
	cfg      config.Config
	driver   clock.Driver
	kernel   *kernel.Kernel
	backend  backend.Backend
	input    *input.Manager
	workload *workload.Generator

	limits     []time.Duration
	limitIndex int

	frames   timer.Handle
	cancel   context.CancelFunc
	quitting bool
	err      error
	updates  int
}

type actionHandler interface {
	HandleAction(act action.Action)
}

// New initializes the backend and builds the kernel on top of opts.Driver.
// The backend is initialized first so the kernel picks up any logger it
// installs.
func New(opts Options) (*App, error) {
	if opts.Backend == nil || opts.Driver == nil {
		return nil, errors.New("app needs a backend and a driver")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		cfg:     opts.Config,
		driver:  opts.Driver,
		backend: opts.Backend,
	}

	err := a.backend.Init(backend.BackendConfig{
		Title:     "go-kernel",
		Scale:     1,
		VSync:     opts.Config.Display.Limiter == timing.KindNone,
		ShowDebug: opts.Config.Display.Debug,
		Callbacks: backend.BackendCallbacks{OnQuit: a.Quit},
	})
	if err != nil {
		return nil, err
	}

	k, err := kernel.New(opts.Driver, opts.Config.KernelConfig())
	if err != nil {
		_ = a.backend.Cleanup()
		return nil, err
	}
	a.kernel = k

	throttle := opts.Throttle
	if throttle == 0 {
		throttle = input.DefaultThrottle
	}
	a.input = input.NewManager(k, throttle)

	a.workload = workload.New(k, workload.Config{
		JobsPerSecond: opts.Config.Workload.JobsPerSecond,
		JobCost:       opts.Config.Workload.JobCost,
		BurstSize:     opts.Config.Workload.BurstSize,
		Spin:          opts.Spin,
	})

	a.limits = append([]time.Duration{k.FrameRateLimit()}, FrameRateLimits...)
	a.registerActions()

	return a, nil
}

func (a *App) registerActions() {
	a.input.On(action.Quit, event.Press, a.Quit)
	a.input.On(action.PauseToggle, event.Press, a.workload.TogglePause)
	a.input.On(action.Burst, event.Press, a.workload.Burst)
	a.input.On(action.CycleFrameRateLimit, event.Press, a.cycleFrameRateLimit)

	if h, ok := a.backend.(actionHandler); ok {
		for _, act := range []action.Action{action.DebugToggle, action.LogLevelIncrease, action.LogLevelDecrease} {
			a.input.On(act, event.Press, func() { h.HandleAction(act) })
		}
	}
}

// Run drives the kernel until the backend asks to quit, an update fails or
// ctx is done. It cleans up the backend before returning.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	defer cancel()

	if a.quitting {
		return a.finish(nil)
	}

	a.kernel.Start()
	a.workload.Start()
	// a zero interval fires on every executed tick; the backend update then
	// runs in that tick's render tier
	a.frames = a.kernel.SetInterval(func() { a.kernel.OnRender(a.update) }, 0)

	slog.Info("Kernel running",
		"backend", a.cfg.Display.Backend,
		"refresh_rate", a.cfg.Display.RefreshRate,
		"limiter", a.cfg.Display.Limiter)

	err := a.driver.Run(ctx)
	if a.quitting && errors.Is(err, context.Canceled) {
		err = nil
	}
	return a.finish(err)
}

func (a *App) finish(runErr error) error {
	a.kernel.ClearInterval(a.frames)
	a.workload.Stop()
	a.kernel.Stop()

	if err := a.backend.Cleanup(); err != nil {
		slog.Warn("Backend cleanup failed", "error", err)
	}

	s := a.kernel.Stats()
	w := a.workload.Status()
	slog.Info("Kernel stopped",
		"frames", s.Frame,
		"dropped_ticks", s.DroppedTicks,
		"forced_deferred", s.ForcedDeferred,
		"panics", s.Panics,
		"jobs_produced", w.Produced,
		"jobs_completed", w.Completed,
		"max_frame_delta", w.MaxDelta)

	if a.err != nil {
		return a.err
	}
	return runErr
}

// Quit ends the run after the current tick.
func (a *App) Quit() {
	if a.quitting {
		return
	}
	a.quitting = true
	a.kernel.Stop()
	if a.cancel != nil {
		a.cancel()
	}
}

// Kernel returns the kernel being driven.
func (a *App) Kernel() *kernel.Kernel {
	return a.kernel
}

// Workload returns the load generator.
func (a *App) Workload() *workload.Generator {
	return a.workload
}

// Updates returns the number of backend updates so far.
func (a *App) Updates() int {
	return a.updates
}

func (a *App) update(kernel.Frame) {
	if a.quitting {
		return
	}
	a.updates++

	events, err := a.backend.Update(a.kernel.Stats())
	if err != nil {
		a.err = err
		a.Quit()
		return
	}
	a.input.Dispatch(events)
}

func (a *App) cycleFrameRateLimit() {
	a.limitIndex = (a.limitIndex + 1) % len(a.limits)
	limit := a.limits[a.limitIndex]
	if err := a.kernel.SetFrameRateLimit(limit); err != nil {
		slog.Error("Failed to change frame rate limit", "error", err)
		return
	}
	slog.Info("Frame rate limit changed", "limit", limit)
}
