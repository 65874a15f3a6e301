package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/valerio/go-kernel/kernel/backend"
	"github.com/valerio/go-kernel/kernel/backend/headless"
	"github.com/valerio/go-kernel/kernel/backend/sdl2"
	"github.com/valerio/go-kernel/kernel/backend/terminal"
	"github.com/valerio/go-kernel/kernel/clock"
	"github.com/valerio/go-kernel/kernel/config"
	"github.com/valerio/go-kernel/kernel/timing"
	"github.com/valerio/go-kernel/kernel/workload"
)

// ErrNoFramesLimit is returned for a headless run without a frame count,
// which would never end.
var ErrNoFramesLimit = errors.New("headless mode requires a positive frame count")

// Platform is the clock driving a run and the matching way to spend a job's
// simulated cost.
type Platform struct {
	Driver clock.Driver
	Spin   func(d time.Duration)
	stop   func()
}

// Close releases the limiter, if any.
func (p Platform) Close() {
	if p.stop != nil {
		p.stop()
	}
}

// NewPlatform picks the driver for the configured backend. Headless runs use
// a manual clock stepping one refresh at a time, so job costs advance it
// instead of burning CPU. Interactive runs use the system clock paced by the
// configured limiter.
func NewPlatform(cfg config.DisplayConfig) (Platform, error) {
	if cfg.Backend == config.BackendHeadless {
		m := clock.NewManual(timing.FrameDuration(cfg.RefreshRate))
		return Platform{Driver: m, Spin: m.Advance}, nil
	}

	limiter, err := timing.New(cfg.Limiter, cfg.RefreshRate)
	if err != nil {
		return Platform{}, err
	}
	p := Platform{
		Driver: clock.NewSystem(limiter),
		Spin:   workload.BusyWait,
	}
	if t, ok := limiter.(*timing.TickerLimiter); ok {
		p.stop = t.Stop
	}
	return p, nil
}

// NewBackend builds the backend named by the configuration.
func NewBackend(cfg config.DisplayConfig) (backend.Backend, error) {
	switch cfg.Backend {
	case config.BackendHeadless:
		if cfg.Frames <= 0 {
			return nil, ErrNoFramesLimit
		}
		return headless.New(cfg.Frames, headless.SampleConfig{}), nil
	case config.BackendTerminal:
		return terminal.New(), nil
	case config.BackendSDL2:
		return sdl2.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
