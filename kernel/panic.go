package kernel

import "fmt"

// Tier identifies one of the three work queues.
type Tier int

const (
	TierTimed Tier = iota
	TierRender
	TierDeferred
)

func (t Tier) String() string {
	switch t {
	case TierTimed:
		return "timed"
	case TierRender:
		return "render"
	case TierDeferred:
		return "deferred"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// PanicError describes a recovered panic raised by a queued callback.
type PanicError struct {
	Tier  Tier
	Frame uint64
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("kernel: %s callback panicked in frame %d: %v", e.Tier, e.Frame, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// guard runs fn, recovering and reporting a panic so the drain can continue.
func (k *Kernel) guard(tier Tier, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			k.report(&PanicError{Tier: tier, Frame: k.frame, Value: r})
		}
	}()
	fn()
}

func (k *Kernel) report(err *PanicError) {
	k.panics++
	k.log.Error("Kernel callback panicked",
		"tier", err.Tier.String(),
		"frame", err.Frame,
		"panic", err.Value)
	if k.onPanic != nil {
		k.onPanic(err)
	}
}
