// Package config loads the driver configuration from YAML.
package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valerio/go-kernel/kernel"
	"github.com/valerio/go-kernel/kernel/timing"
)

// Backend names.
const (
	BackendHeadless = "headless"
	BackendTerminal = "terminal"
	BackendSDL2     = "sdl2"
)

// Config is the full driver configuration.
type Config struct {
	Kernel   KernelConfig   `yaml:"kernel"`
	Display  DisplayConfig  `yaml:"display"`
	Workload WorkloadConfig `yaml:"workload"`
}

// KernelConfig mirrors kernel.Config.
type KernelConfig struct {
	FrameRateLimit    time.Duration `yaml:"frame_rate_limit"`
	DeferredTimeLimit time.Duration `yaml:"deferred_time_limit"`
	MaxDeferredLength int           `yaml:"max_deferred_length"`
}

// DisplayConfig selects where ticks come from and where stats are shown.
type DisplayConfig struct {
	Backend     string      `yaml:"backend"`
	RefreshRate float64     `yaml:"refresh_rate"`
	Limiter     timing.Kind `yaml:"limiter"`
	// Frames stops the run after this many executed frames. Zero runs
	// until quit; headless runs require it.
	Frames int  `yaml:"frames"`
	Debug  bool `yaml:"debug"`
}

// WorkloadConfig shapes the synthetic load.
type WorkloadConfig struct {
	JobsPerSecond int           `yaml:"jobs_per_second"`
	JobCost       time.Duration `yaml:"job_cost"`
	BurstSize     int           `yaml:"burst_size"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	kc := kernel.DefaultConfig()
	return Config{
		Kernel: KernelConfig{
			FrameRateLimit:    kc.FrameRateLimit,
			DeferredTimeLimit: kc.DeferredTimeLimit,
			MaxDeferredLength: kc.MaxDeferredLength,
		},
		Display: DisplayConfig{
			Backend:     BackendTerminal,
			RefreshRate: timing.DefaultRefreshRate,
			Limiter:     timing.KindTicker,
		},
		Workload: WorkloadConfig{
			JobsPerSecond: 600,
			JobCost:       200 * time.Microsecond,
			BurstSize:     500,
		},
	}
}

// Load reads and validates the file at path, on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.KernelConfig().Validate(); err != nil {
		return err
	}

	switch c.Display.Backend {
	case BackendHeadless, BackendTerminal, BackendSDL2:
	default:
		return fmt.Errorf("unknown backend %q", c.Display.Backend)
	}
	switch c.Display.Limiter {
	case timing.KindTicker, timing.KindAdaptive, timing.KindNone:
	default:
		return fmt.Errorf("unknown limiter %q", c.Display.Limiter)
	}
	if rate := c.Display.RefreshRate; rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("refresh rate must be positive and finite, got %v", rate)
	}
	if c.Display.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", c.Display.Frames)
	}

	if c.Workload.JobsPerSecond < 0 || c.Workload.JobCost < 0 || c.Workload.BurstSize < 0 {
		return fmt.Errorf("workload settings must not be negative")
	}
	return nil
}

// KernelConfig converts the kernel section into a kernel.Config.
func (c Config) KernelConfig() kernel.Config {
	return kernel.Config{
		FrameRateLimit:    c.Kernel.FrameRateLimit,
		DeferredTimeLimit: c.Kernel.DeferredTimeLimit,
		MaxDeferredLength: c.Kernel.MaxDeferredLength,
	}
}
