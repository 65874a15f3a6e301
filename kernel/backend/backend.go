package backend

import (
	"github.com/valerio/go-kernel/kernel"
	"github.com/valerio/go-kernel/kernel/input/action"
	"github.com/valerio/go-kernel/kernel/input/event"
)

// Backend is a display surface for a running kernel (terminal, SDL window,
// or nothing at all).
// Backends are responsible for:
// - Showing the kernel's counters and queue depths once per frame
// - Translating platform-specific input events to Actions
// - Signalling shutdown when the platform asks for it
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update presents the snapshot and returns the input events collected
	// since the previous call. It runs as a render callback, once per
	// executed kernel frame, and must not block.
	Update(stats kernel.Stats) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title     string
	Scale     int
	VSync     bool
	ShowDebug bool             // Backends may ignore unsupported features
	Callbacks BackendCallbacks // Callbacks for backend communication
}

// BackendCallbacks allows backends to communicate with the driver
type BackendCallbacks struct {
	// OnQuit is called when the platform requests shutdown (window close,
	// SIGTERM) outside of the normal input path.
	OnQuit func()
}

// InputEvent is an action reported by a backend.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// Quit returns the event backends use to end a run.
func Quit() InputEvent {
	return InputEvent{Action: action.Quit, Type: event.Press}
}
