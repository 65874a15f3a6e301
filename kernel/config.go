package kernel

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrInvalidConfig is returned for negative limits or budgets.
var ErrInvalidConfig = errors.New("invalid kernel configuration")

// Defaults matching a 60Hz display with room for background work.
const (
	DefaultDeferredTimeLimit = 10 * time.Millisecond
	DefaultMaxDeferredLength = 100
)

// Config holds the tunables of a Kernel.
type Config struct {
	// FrameRateLimit is the minimum spacing between executed ticks. Platform
	// ticks arriving sooner are dropped. Zero disables limiting.
	FrameRateLimit time.Duration

	// DeferredTimeLimit is the per-tick budget for draining deferred work,
	// measured from the start of the tick.
	DeferredTimeLimit time.Duration

	// MaxDeferredLength caps the deferred backlog. Work above the cap runs
	// every tick regardless of the budget.
	MaxDeferredLength int

	// Logger receives kernel diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// OnPanic is called after a queued callback panicked and the panic was
	// recovered. Optional.
	OnPanic func(err *PanicError)
}

// DefaultConfig returns the configuration used when nothing is tuned.
func DefaultConfig() Config {
	return Config{
		FrameRateLimit:    0,
		DeferredTimeLimit: DefaultDeferredTimeLimit,
		MaxDeferredLength: DefaultMaxDeferredLength,
	}
}

// Validate rejects negative durations and lengths.
func (c Config) Validate() error {
	if err := validateDuration("frame rate limit", c.FrameRateLimit); err != nil {
		return err
	}
	if err := validateDuration("deferred time limit", c.DeferredTimeLimit); err != nil {
		return err
	}
	return validateLength(c.MaxDeferredLength)
}

func validateDuration(name string, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidConfig, name, d)
	}
	return nil
}

func validateLength(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: max deferred length must not be negative, got %d", ErrInvalidConfig, n)
	}
	return nil
}
